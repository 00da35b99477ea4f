// Package banner prints the startup summary: listen address, database
// path, config source, and quick production checks.
package banner

import (
	"fmt"

	"huddle/pkg/config"
)

const banner = `
██╗  ██╗██╗   ██╗██████╗ ██████╗ ██╗     ███████╗
██║  ██║██║   ██║██╔══██╗██╔══██╗██║     ██╔════╝
███████║██║   ██║██║  ██║██║  ██║██║     █████╗
██╔══██║██║   ██║██║  ██║██║  ██║██║     ██╔══╝
██║  ██║╚██████╔╝██████╔╝██████╔╝███████╗███████╗
╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚══════╝
`

// Print writes the banner using the effective config.
func Print(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)

	fmt.Println("\n== Examples ===================================================")
	fmt.Println(`curl -X POST 'http://<host>:<port>/v1/auth/register' -d '{"email":"a@b.c","password":"secret1","name_first":"Ada","name_last":"Lovelace"}'`)
	fmt.Println(`curl -X POST 'http://<host>:<port>/v1/channels' -H 'Authorization: Bearer <token>' -d '{"name":"general","is_public":true}'`)

	fmt.Println("\n== Production? =================================================")
	if eff.Config != nil && eff.Config.Security.TokenSecret != "" {
		fmt.Println("- Token secret: configured")
	} else {
		fmt.Println("- Token secret: MISSING (required to sign sessions)")
	}
	if eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}
	if eff.DBPath != "" {
		fmt.Printf("- DB Path: %s\n", eff.DBPath)
	} else {
		fmt.Println("- DB Path: not set (use -db or HUDDLE_DB_PATH)")
	}
	if eff.Config != nil && eff.Config.Maintenance.Enabled {
		cron := eff.Config.Maintenance.Cron
		if cron == "" {
			cron = "0 3 * * *"
		}
		fmt.Printf("- Maintenance: enabled (cron=%s)\n", cron)
	} else {
		fmt.Println("- Maintenance: disabled")
	}

	fmt.Println("\n== Logs: =================================================")
}
