// Package client implements the client side of the EcoColeta protocol.
//
// The client performs the following steps:
//	1. Connect to the server and read the OK greeting.
//	2. Send one command line at a time, sanitizing every argument so it cannot
//	   carry a '|' or a line break.
//	3. Read the response up to END. Record lines that fail to decode are
//	   reported in Response.Invalid and skipped.
//	4. Send EXIT, read the OK|Bye reply and close the connection.
//
// Administrator state lives on the server, bound to the connection: after a
// successful Login every later command on the same Client is authorized.
// Logging out is a client concern; the server only forgets a login when the
// connection ends.
package client
