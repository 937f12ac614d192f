package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/scantext/folio"
	"github.com/scantext/folio/pipeline"
)

func main() {
	cmd := &cli.Command{
		Name:      "folio",
		Usage:     "Compose per-page text and structured output from analysis artifacts",
		ArgsUsage: "DATA_PATH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "paragraph",
				Value: `\n\n`,
				Usage: "character sequence used to separate paragraphs",
			},
			&cli.StringFlag{
				Name:  "regions",
				Usage: `only export text from the given region paths, e.g. "regions/TEXT"`,
			},
			&cli.BoolFlag{
				Name:  "page-xml",
				Usage: "also produce a structured page.xml in each archive",
			},
			&cli.FloatFlag{
				Name:  "min-confidence",
				Value: 0.5,
				Usage: "line confidence threshold",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "pages processed in parallel (default: number of CPUs)",
			},
			&cli.StringFlag{
				Name:  "log",
				Value: "dev",
				Usage: "log mode: dev or prod",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.Args().First()
	if dataPath == "" {
		return fmt.Errorf("missing DATA_PATH argument")
	}

	logger, err := newLogger(cmd.String("log"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := pipeline.Options{
		Paragraph:     cmd.String("paragraph"),
		Regions:       cmd.String("regions"),
		PageXML:       cmd.Bool("page-xml"),
		MinConfidence: cmd.Float("min-confidence"),
		Jobs:          int(cmd.Int("jobs")),
	}
	return folio.Compose(ctx, dataPath, opts, logger)
}

func newLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch mode {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
