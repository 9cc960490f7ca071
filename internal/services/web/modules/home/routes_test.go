package home

import (
	"net/http"
	"testing"

	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func TestMountRegistersHomeRoute(t *testing.T) {
	t.Parallel()

	m := New(modulehandler.NewTestBase(), seededGateway())
	if !m.Healthy() {
		t.Fatal("expected healthy module")
	}
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if len(mount.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(mount.Routes))
	}
	route := mount.Routes[0]
	if route.Method != http.MethodGet || route.Pattern != routepath.Root || route.PageKey != webtemplates.PageHome {
		t.Fatalf("route = %+v", route)
	}
	if New(modulehandler.NewTestBase(), NewGRPCGateway(nil)).Healthy() {
		t.Fatal("expected unavailable module to report unhealthy")
	}
}
