package audit_test

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core/audit"
	logsvc "github.com/trezcool/kosoa/services/logger"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

func newSvc() audit.Service {
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "AUDIT : ", log.LstdFlags))
	logger.Enable(false)
	return audit.NewService(inmemdb.NewAuditRepository(inmemdb.NewDB()), logger)
}

func TestService_Record(t *testing.T) {
	svc := newSvc()

	svc.Record(audit.Entry{
		ActorID:    1,
		ActorUID:   "actor-uid",
		Action:     "update:tasks",
		TargetType: "task",
		TargetUID:  "task-uid",
		Metadata:   map[string]string{"admin_bypass": "true"},
	})

	entries, err := svc.Filter(audit.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.NotEmpty(t, e.UID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, "update:tasks", e.Action)
	assert.Equal(t, "true", e.Metadata["admin_bypass"])

	got, err := svc.GetByUID(e.UID)
	require.NoError(t, err)
	assert.Equal(t, e.UID, got.UID)
}

func TestService_Filter(t *testing.T) {
	svc := newSvc()

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	svc.Record(audit.Entry{ActorID: 1, Action: "create:classes", TargetType: "class", CreatedAt: old})
	svc.Record(audit.Entry{ActorID: 1, Action: "update:tasks", TargetType: "task", CreatedAt: now})
	svc.Record(audit.Entry{ActorID: 2, Action: "update:tasks", TargetType: "task", CreatedAt: now})

	tests := []struct {
		name    string
		filter  audit.QueryFilter
		wantLen int
	}{
		{name: "all", filter: audit.QueryFilter{}, wantLen: 3},
		{name: "by actor", filter: audit.QueryFilter{ActorID: 1}, wantLen: 2},
		{name: "by action", filter: audit.QueryFilter{Action: "update:tasks"}, wantLen: 2},
		{name: "by target type", filter: audit.QueryFilter{TargetType: "class"}, wantLen: 1},
		{name: "since", filter: audit.QueryFilter{Since: now.Add(-time.Hour)}, wantLen: 2},
		{name: "until", filter: audit.QueryFilter{Until: now.Add(-time.Hour)}, wantLen: 1},
		{name: "actor and action", filter: audit.QueryFilter{ActorID: 1, Action: "update:tasks"}, wantLen: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := svc.Filter(tt.filter)
			require.NoError(t, err)
			assert.Len(t, entries, tt.wantLen)
		})
	}
}

func TestService_Purge(t *testing.T) {
	svc := newSvc()

	now := time.Now().UTC()
	svc.Record(audit.Entry{Action: "create:classes", CreatedAt: now.Add(-72 * time.Hour)})
	svc.Record(audit.Entry{Action: "update:tasks", CreatedAt: now.Add(-36 * time.Hour)})
	svc.Record(audit.Entry{Action: "delete:tasks", CreatedAt: now})

	n, err := svc.Purge(now.Add(-48 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := svc.Filter(audit.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
