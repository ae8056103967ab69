// devicectl inspects and edits the device-local state file the way a
// client build does: the anonymous identity and the app settings.
// It is mainly a debugging aid for support, letting us reproduce a
// device's attributed identity and settings without a phone in hand.
//
// Usage:
//
//	devicectl [-store path] id
//	devicectl [-store path] settings
//	devicectl [-store path] theme <auto|light|dark>
//	devicectl [-store path] reset
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/seckc/community-api/internal/identity"
	"github.com/seckc/community-api/internal/localstore"
	"github.com/seckc/community-api/internal/settings"
)

func main() {
	storePath := flag.String("store", defaultStorePath(), "path to the device state file")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	store := localstore.NewFileStore(*storePath)
	mgr := settings.NewManager(store)

	switch flag.Arg(0) {
	case "id":
		id, err := identity.NewProvider(store).GetOrCreate()
		if err != nil {
			log.Fatalf("identity: %v", err)
		}
		fmt.Println(id)
	case "settings":
		out := map[string]any{
			"notifications": mgr.NotificationPrefs(),
			"app":           mgr.AppSettings(),
			"theme":         mgr.Theme(),
		}
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			log.Fatalf("settings: %v", err)
		}
		fmt.Println(string(b))
	case "theme":
		if flag.NArg() < 2 {
			log.Fatal("theme requires a value: auto, light or dark")
		}
		mode := settings.ThemeMode(flag.Arg(1))
		if !settings.ValidTheme(mode) {
			log.Fatalf("unknown theme %q", flag.Arg(1))
		}
		s := mgr.AppSettings()
		s.Theme = mode
		if err := mgr.SaveAppSettings(s); err != nil {
			log.Fatalf("save settings: %v", err)
		}
		fmt.Println(mode)
	case "reset":
		if err := mgr.Reset(); err != nil {
			log.Fatalf("reset: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "device-state.json"
	}
	return filepath.Join(home, ".seckc", "device-state.json")
}
