package main

import (
	"log/slog"
	"os"

	"psprite/compile"
	"psprite/inspect"
	"psprite/parallel"

	"github.com/alecthomas/kong"
)

var cli struct {
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"PSPRITE_LOG_LEVEL"`
	Workers  int    `help:"Number of workers, 0 for one per CPU" default:"0"`

	Build   compile.CLICmd `cmd:"" help:"Convert a sprite sheet and object catalog to object blocks"`
	Palette inspect.CLICmd `cmd:"" help:"Print the colors of RIFF PAL files"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("psprite"),
		kong.Description("Sprite sheet to palette indexed puzzle object converter"),
		kong.UsageOnError(),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		kctx.FatalIfErrorf(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	pool := parallel.Start(cli.Workers)
	err := kctx.Run(pool)
	pool.Close()

	kctx.FatalIfErrorf(err)
}
