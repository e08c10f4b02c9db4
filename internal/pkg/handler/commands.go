package handler

import (
	"ecocoleta/internal/pkg/protocol"
	"ecocoleta/internal/pkg/session"
)

const (
	usageList   = "LIST"
	usageFilter = "FILTER|category"
	usageLogin  = "LOGIN|username|password"
	usageAdd    = "ADD|name|address|cat1,cat2|contact"
	usageUpdate = "UPDATE|id|name|address|cat1,cat2|contact"
	usageExit   = "EXIT"
)

// command describes how one request is authorized, validated and run.
type command struct {
	// args is the minimum number of arguments.
	args  int
	usage string
	// admin commands require an authenticated session; checked before args.
	admin bool
	// close ends the connection after the response is written.
	close bool
	run   func(h *Handler, sess *session.Session, args []string) protocol.Response
}

// commands maps (session state, command) to action and response.
// Names are matched after upper-casing.
var commands = map[string]command{
	"LIST":   {usage: usageList, run: (*Handler).list},
	"FILTER": {usage: usageFilter, run: (*Handler).filter},
	"LOGIN":  {args: 2, usage: usageLogin, run: (*Handler).login},
	"ADD":    {args: 4, usage: usageAdd, admin: true, run: (*Handler).add},
	"UPDATE": {args: 5, usage: usageUpdate, admin: true, run: (*Handler).update},
	"EXIT":   {usage: usageExit, close: true, run: (*Handler).exit},
}
