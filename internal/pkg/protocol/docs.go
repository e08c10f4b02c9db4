// Package protocol implements the EcoColeta line protocol.
//
// Every message is a sequence of newline-terminated text lines. Requests are a
// single line: the command name followed by its arguments, separated by '|'.
//
//	LIST
//	FILTER|category
//	LOGIN|username|password
//	ADD|name|address|cat1,cat2|contact
//	UPDATE|id|name|address|cat1,cat2|contact
//	EXIT
//
// Responses are one or more lines closed by a line holding exactly END.
// The first line is the status, optionally followed by '|' and a message:
// OK, AUTH_OK, AUTH_FAIL, ADD_OK|<id>, UPDATE_OK or ERROR|<message>.
// LIST and FILTER follow the status with one record line per point:
//
//	id|name|address|cat1,cat2|contact
//
// Field values are sanitized before they are written, so a '|' or a line
// break never appears inside a field.
package protocol
