package marshal_test

import (
	"os"
	"testing"

	"bindkit/internal/logging"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}
