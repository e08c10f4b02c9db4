// Package server implements the server side of the EcoColeta protocol.
//
// The server performs the following steps:
// 	1. Listens on a TCP port and accepts connections without limit.
// 	2. Runs one goroutine per accepted connection; connections share nothing but the store.
// 	3. Sends the greeting OK|Welcome to EcoColeta followed by END.
// 	4. Reads one line at a time, skipping blank lines, and hands each line to the
// 	   handler together with the connection's session.
// 	5. Writes the response followed by END before reading the next line.
// 	6. Closes the connection after answering EXIT, when the client disconnects,
// 	   or on the first read or write error.
//
// A failing connection ends only its own goroutine. Idle connections never time out.
package server
