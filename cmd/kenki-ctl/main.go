package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"kenki/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	cmd := ipc.CmdTrigger
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	reply, err := ipc.Send(*socket, cmd, "")
	if err != nil {
		fmt.Println("kenki-voiced not running:", err)
		os.Exit(1)
	}
	if !reply.OK {
		fmt.Println("daemon refused:", reply.Info)
		os.Exit(1)
	}
	if reply.Info != "" {
		fmt.Println(reply.Info)
	}
}
