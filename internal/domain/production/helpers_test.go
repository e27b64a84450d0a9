package production_test

import (
	"testing"
	"time"

	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func mustKey(t *testing.T) shared.PlayerKey {
	t.Helper()
	key, err := shared.NewPlayerKey("alice")
	if err != nil {
		t.Fatal(err)
	}
	return key
}
