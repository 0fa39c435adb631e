package cmd

import (
	"fmt"
	"os"

	"github.com/simplelang/go-spa/pkg/autotester"
	"github.com/spf13/cobra"
)

// GetFlag reads an expected boolean flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString reads an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// openSession builds an analysis session for a given source file, exiting
// with a diagnostic when the program cannot be analysed.
func openSession(filename string) *autotester.Session {
	session, err := autotester.NewSession(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return session
}
