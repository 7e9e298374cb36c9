// Package ipc is the control channel between kenki-ctl and the voice
// daemon: JSON messages over a unix socket.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/kenki-voiced.sock"

// Known control commands.
const (
	CmdTrigger = "trigger" // push-to-talk: record one utterance
	CmdStop    = "stop"    // shut the daemon down
	CmdStatus  = "status"  // liveness probe
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

type Reply struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// StartServer listens on the socket and calls handler for each control
// message; the handler's reply is written back on the same connection.
func StartServer(path string, handler func(ControlMessage) Reply) (net.Listener, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return ln, nil
}

func handleConn(conn net.Conn, handler func(ControlMessage) Reply) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	reply := handler(msg)
	_ = json.NewEncoder(conn).Encode(reply)
}

// Send delivers one command to a running daemon and returns its reply.
func Send(path, cmd, arg string) (Reply, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd, Arg: arg}); err != nil {
		return Reply{}, err
	}
	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, err
	}
	return reply, nil
}
