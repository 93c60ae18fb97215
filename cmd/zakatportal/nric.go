package main

import (
	"fmt"

	"zakatportal/internal/validate"

	"github.com/urfave/cli/v2"
)

var nricCommand = &cli.Command{
	Name:      "nric",
	Usage:     "Check an NRIC and print the birth dates it can encode",
	ArgsUsage: "<nric>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("expected exactly one nric argument")
		}

		nric := validate.NormalizeNRIC(c.Args().First())
		if !validate.IsNRIC(nric) {
			return fmt.Errorf("%q is not a 12 digit nric", c.Args().First())
		}

		dates, err := validate.BirthDateCandidates(nric)
		if err != nil {
			return err
		}

		for _, d := range dates {
			fmt.Println(d.Format("2006-01-02"))
		}

		return nil
	},
}
