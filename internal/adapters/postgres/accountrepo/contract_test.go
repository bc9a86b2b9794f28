package accountrepo

import (
	"testing"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/traffic-manager-api/internal/adapters/postgres/testutil"
	accountrepoport "github.com/Overland-East-Bay/traffic-manager-api/internal/ports/out/accountrepo"
)

func TestContract_PostgresAccountRepo(t *testing.T) {
	contracttest.RunAccountRepo(t, func(t *testing.T) (accountrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(testutil.OpenMigratedPool(t)), nil
	})
}
