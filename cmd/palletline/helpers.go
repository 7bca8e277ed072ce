// Shared helpers for the palletline subcommands.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pryzera/palletline/internal/docstore"
	"github.com/pryzera/palletline/internal/proxystore"
	"github.com/pryzera/palletline/internal/sheetstore"
	"github.com/pryzera/palletline/internal/workflow"
	"github.com/pryzera/palletline/pkg/types"
)

// openStore builds the backend the config names. Config.Validate has
// already run, so the required parameters are present.
func openStore(c types.Config) (types.Store, error) {
	switch c.Backend {
	case types.BackendSheet:
		path := c.Workbook
		if path == "" {
			path = filepath.Join(c.DataDir, "pallets.xlsx")
		}
		return sheetstore.Open(path)
	case types.BackendDoc:
		return docstore.Open(c.DataDir)
	case types.BackendProxy:
		return proxystore.New(c.ProxyURL, c.ProxySheetID, c.ProxyAPIKey), nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", types.ErrConfiguration, c.Backend)
}

// lookupMaterial resolves a --material flag value, failing with the
// configured materials listed when the code is unknown.
func lookupMaterial(code string) (types.Material, error) {
	if code == "" {
		return types.Material{}, fmt.Errorf("%w: --material is required", types.ErrValidation)
	}
	m, err := repo.FindMaterial(code)
	if err != nil {
		return types.Material{}, fmt.Errorf("material %s: %w", code, err)
	}
	return m, nil
}

// newSession builds the operator session for one command invocation.
// Station identity comes from config unless overridden by flags.
func newSession(m types.Material, operator, deviceID string) *workflow.Session {
	if operator == "" {
		operator = cfg.Store.Operator
	}
	if deviceID == "" {
		deviceID = cfg.Store.DeviceID
	}
	return &workflow.Session{Material: m, Operator: operator, DeviceID: deviceID}
}

// confirmPrompt asks a y/N question on the terminal.
func confirmPrompt(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
