// cmd/tools/nav-registry/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"internship-portal/pkg/registry"
)

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	var path string
	for _, fs := range []*flag.FlagSet{initCmd, addCmd, updateCmd, validateCmd} {
		fs.StringVar(&path, "path", "configs/navigation.json", "Path to registry file")
	}

	menuAdd := addCmd.String("menu", "", "Menu to extend (public, student, company, admin)")
	idAdd := addCmd.String("id", "", "Item ID (e.g., resources)")
	label := addCmd.String("label", "", "Link text")
	href := addCmd.String("href", "", "Absolute link path (e.g., /resources)")
	badge := addCmd.String("badge", "", "Optional counter badge (unread)")

	menuUpdate := updateCmd.String("menu", "", "Menu holding the item")
	idUpdate := updateCmd.String("id", "", "Item ID to update")
	field := updateCmd.String("field", "", "Field to update (label, path, badge)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Error: %s already exists\n", path)
			os.Exit(1)
		}
		reg := registry.Default()
		reg.LastUpdated = time.Now().Format(time.RFC3339)
		exitOnError("writing registry", registry.Save(reg, path))
		fmt.Printf("Wrote default navigation to %s\n", path)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *menuAdd == "" || *idAdd == "" || *label == "" || *href == "" {
			fmt.Println("Error: menu, id, label, and href are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		reg := load(path)
		exitOnError("adding item", reg.Add(*menuAdd, registry.NavItem{ID: *idAdd, Label: *label, Path: *href, Badge: *badge}))
		save(reg, path)
		fmt.Printf("Added %s to the %s menu\n", *idAdd, *menuAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *menuUpdate == "" || *idUpdate == "" || *field == "" {
			fmt.Println("Error: menu, id, and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		reg := load(path)
		exitOnError("updating item", reg.Update(*menuUpdate, *idUpdate, *field, *value))
		save(reg, path)
		fmt.Printf("Updated %s/%s, field %s to %q\n", *menuUpdate, *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg := load(path)
		total := 0
		for _, items := range reg.Menus {
			total += len(items)
		}
		fmt.Printf("Registry validation passed. Found %d menus, %d items.\n", len(reg.Menus), total)

	case "help":
		fallthrough
	default:
		help()
	}
}

func load(path string) *registry.NavRegistry {
	reg, err := registry.LoadRegistry(path)
	exitOnError("loading registry", err)
	return reg
}

func save(reg *registry.NavRegistry, path string) {
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	exitOnError("writing registry", registry.Save(reg, path))
}

func exitOnError(action string, err error) {
	if err != nil {
		fmt.Printf("Error %s: %v\n", action, err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println(`
Usage: nav-registry <command> [flags]

Commands:
  init     Write the built-in navigation to a file for editing
  add      Add a link to a menu
  update   Change a field of an existing link
  validate Validate the registry file
  help     Show this help message

Examples:
  nav-registry init -path configs/navigation.json
  nav-registry add -menu student -id resources -label "Resources" -href /resources
  nav-registry update -menu student -id resources -field label -value "Career resources"
  nav-registry validate -path configs/navigation.json

Point ui.registry_path at the file to serve it instead of the built-in menus.`)
}
