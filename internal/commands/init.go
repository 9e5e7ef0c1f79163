package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/styles"
)

// Init writes the default configuration
func Init(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	local := fs.Bool("local", false, "write "+config.LocalConfigFile+" in the working directory")
	force := fs.Bool("force", false, "overwrite an existing config file")
	_ = fs.Parse(args) //nolint:errcheck // ExitOnError

	path := config.ConfigPath()
	if *local {
		path = config.LocalConfigFile
	}

	if err := writeDefaultConfig(path, *force); err != nil {
		fail("Error writing config", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Config written: " + path))
	fmt.Println(styles.DimStyle.Render("  Edit it, then run 'mdsite build'"))
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return config.DefaultConfig().SaveFile(path)
}
