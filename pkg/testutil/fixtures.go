package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestUserID1        = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestUserID2        = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestTenantID       = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestOtherTenantID  = uuid.MustParse("00000000-0000-0000-0000-000000000011")
	TestApplicationID  = uuid.MustParse("00000000-0000-0000-0000-000000000030")
	TestApplicationID2 = uuid.MustParse("00000000-0000-0000-0000-000000000031")
)

// FixedTime returns a deterministic UTC timestamp for tests.
func FixedTime() time.Time {
	return time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
}
