package swarm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/vertigojc/p4d-swarm-extension/internal/swarm"
	"github.com/vertigojc/p4d-swarm-extension/internal/testutil"
)

func TestClient_Version_Replay(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "swarm_version")
	defer cleanup()

	c := swarm.NewClient("https://swarm.example.com/", "tok",
		swarm.WithHTTPClient(testutil.VCRHTTPClient(r)))

	got, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if !strings.HasPrefix(got, "SWARM/2022.1") {
		t.Errorf("Version() = %q, want the recorded 2022.1 build", got)
	}
}
