package vault

import (
	"encoding/json"
	"os"

	"CoinVault/internal/model"
)

// LoadState reads a persisted vault state from a JSON file. Returns nil
// without error if the file doesn't exist yet.
func LoadState(filePath string) (*model.VaultState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var state model.VaultState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the vault state to a JSON file.
func SaveState(filePath string, state model.VaultState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
