package main

import (
	"fmt"

	"servicenova/internal/utils"

	"github.com/urfave/cli/v2"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate NanoIDs or meeting codes for fixtures",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.BoolFlag{
			Name:  "meeting",
			Usage: "Generate meeting codes (abc-defg-hij) instead of IDs",
		},
	},
	Action: func(c *cli.Context) error {
		generate := utils.NanoID
		if c.Bool("meeting") {
			generate = utils.MeetingCode
		}

		for range c.Int("count") {
			fmt.Println(generate())
		}
		return nil
	},
}
