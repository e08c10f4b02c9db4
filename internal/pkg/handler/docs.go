// Package handler implements the EcoColeta command dispatcher.
//
// A Handler turns one request line into one response:
//	1. The line is split on '|' and the command name is upper-cased.
//	2. The command is looked up in the command table. Unknown names yield ERROR.
//	3. Administrator commands (ADD, UPDATE) are refused with ERROR unless the
//	   connection's session authenticated with LOGIN; this check comes before
//	   argument validation.
//	4. Commands with too few arguments yield ERROR with a usage hint.
//	5. The command runs against the shared store.
//
// LOGIN answers AUTH_OK or AUTH_FAIL rather than ERROR so that a client can tell a
// bad login from a bad request. There is no server-side LOGOUT: a session ends
// with its connection.
package handler
