package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yassinebenk/bg-v2/render"
	"github.com/yassinebenk/bg-v2/server"
)

func main() {
	app := &cli.App{
		Name:     "bg-v2",
		HelpName: "bg-v2",
		Usage:    "Composite artwork into framed wall mockups",
		Version:  server.Version,
		Commands: []*cli.Command{
			server.Command,
			render.Command,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
