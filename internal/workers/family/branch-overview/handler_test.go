package branchoverview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lineage-workers/internal/common/camunda/jobtest"
	"lineage-workers/internal/common/database"
	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/common/logger"
	"lineage-workers/internal/common/validation"
	"lineage-workers/internal/lineage/branchcolor"
	"lineage-workers/internal/lineage/tree"
)

func createTestHandler(t *testing.T, palette []string, src database.MemberSource) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		Config:  &Config{Enabled: true, MaxJobsActive: 5, Timeout: 5 * time.Second},
		Palette: palette,
		Members: src,
		Logger:  logger.NewZapAdapter(zaptest.NewLogger(t)),
	})
	require.NoError(t, err)
	return h
}

func person(id, name, father string, gen int, status tree.Status) tree.FamilyMember {
	return tree.FamilyMember{ID: id, FirstName: name, FatherID: father, Generation: gen, Gender: tree.GenderMale, Status: status}
}

// P001 has sons P002 (-> P004 -> P006) and P003 (-> P005).
func family() []tree.FamilyMember {
	return []tree.FamilyMember{
		person("P001", "حمد", "", 1, tree.StatusDeceased),
		person("P002", "ابراهيم", "P001", 2, tree.StatusLiving),
		person("P003", "ناصر", "P001", 2, tree.StatusLiving),
		person("P004", "عبدالله", "P002", 3, tree.StatusDeceased),
		person("P005", "سعد", "P003", 3, ""),
		person("P006", "محمد", "P004", 4, tree.StatusLiving),
	}
}

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t, []string{"#111111", "#222222"}, nil)

	out, err := h.Execute(context.Background(), &Input{Members: family()})
	require.NoError(t, err)

	assert.Equal(t, 6, out.TotalMembers)
	assert.Equal(t, 4, out.LivingMembers)

	require.Len(t, out.Branches, 2)
	assert.Equal(t, BranchSummary{FounderID: "P002", FounderName: "ابراهيم", Color: "#111111", Total: 3, Living: 2}, out.Branches[0])
	assert.Equal(t, BranchSummary{FounderID: "P003", FounderName: "ناصر", Color: "#222222", Total: 2, Living: 2}, out.Branches[1])

	require.Len(t, out.SubBranches, 2)
	assert.Equal(t, "P004", out.SubBranches[0].FounderID)
	assert.Equal(t, "ابراهيم", out.SubBranches[0].ParentBranch)
	assert.Equal(t, "#111111", out.SubBranches[0].Color)
	assert.Equal(t, 2, out.SubBranches[0].Total)
	assert.Equal(t, 1, out.SubBranches[0].Living)
	assert.Equal(t, "#222222", out.SubBranches[1].Color)
}

func TestHandler_Execute_PaletteWraps(t *testing.T) {
	h := createTestHandler(t, []string{"#111111"}, nil)

	out, err := h.Execute(context.Background(), &Input{Members: family()})
	require.NoError(t, err)
	assert.Equal(t, "#111111", out.Branches[0].Color)
	assert.Equal(t, "#111111", out.Branches[1].Color)
}

func TestHandler_Execute_DefaultPalette(t *testing.T) {
	h := createTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{Members: family()})
	require.NoError(t, err)
	assert.Equal(t, branchcolor.DefaultPalette[0], out.Branches[0].Color)
	assert.Equal(t, branchcolor.DefaultPalette[1], out.Branches[1].Color)
}

func TestHandler_Execute_OrphanSubBranch(t *testing.T) {
	h := createTestHandler(t, nil, nil)
	members := []tree.FamilyMember{person("X3", "زيد", "missing", 3, "")}

	out, err := h.Execute(context.Background(), &Input{Members: members})
	require.NoError(t, err)
	require.Len(t, out.SubBranches, 1)
	assert.Equal(t, branchcolor.FallbackColor, out.SubBranches[0].Color)
	assert.Empty(t, out.SubBranches[0].ParentBranch)
	assert.Empty(t, out.Branches)
}

func TestHandler_Execute_FromSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "full_name_en", "gender", "father_id", "generation", "branch", "status"}).
			AddRow("P001", "حمد", nil, "male", nil, 1, nil, "Deceased").
			AddRow("P002", "ابراهيم", "Ibrahim Al-Shaya", "male", "P001", 2, nil, "Living"))

	h := createTestHandler(t, nil, database.NewMemberSnapshotLoader(db, "family_members", time.Second))
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, out.Branches, 1)
	assert.Equal(t, "Ibrahim", out.Branches[0].FounderNameEn)
	assert.Equal(t, 1, out.LivingMembers)
}

func TestHandler_Execute_SnapshotTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := createTestHandler(t, nil, database.NewMemberSnapshotLoader(db, "family_members", 20*time.Millisecond))
	_, err = h.Execute(context.Background(), &Input{})

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeQueryTimeout, stdErr.Code)
}

func activatedJob(t *testing.T, input *Input) entities.Job {
	t.Helper()
	variables, err := json.Marshal(input)
	require.NoError(t, err)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 11, Type: TaskType, Retries: 3, Variables: string(variables)}}
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	h := createTestHandler(t, []string{"#111111"}, nil)
	gateway := jobtest.NewGateway()

	h.Handle(gateway.Client(), activatedJob(t, &Input{Members: family()}))

	completed := gateway.Completed()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(11), completed[0].JobKey)

	var out Output
	require.NoError(t, json.Unmarshal([]byte(completed[0].Variables), &out))
	assert.Equal(t, 6, out.TotalMembers)
	assert.Empty(t, gateway.Failed())
}

func TestHandler_Handle_ReportsFailureAfterJobTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h, err := NewHandler(HandlerOptions{
		Config:  &Config{Enabled: true, MaxJobsActive: 5, Timeout: 20 * time.Millisecond, MaxRetries: 3},
		Members: database.NewMemberSnapshotLoader(db, "family_members", time.Second),
		Logger:  logger.NewZapAdapter(zaptest.NewLogger(t)),
	})
	require.NoError(t, err)

	gateway := jobtest.NewGateway()
	h.Handle(gateway.Client(), activatedJob(t, &Input{}))

	failed := gateway.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(2), failed[0].Retries)
	assert.Zero(t, gateway.ExpiredContexts)
	assert.Empty(t, gateway.Completed())
}

func TestHandler_Handle_InvalidVariablesThrow(t *testing.T) {
	h := createTestHandler(t, nil, nil)
	gateway := jobtest.NewGateway()

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 12, Type: TaskType, Retries: 3, Variables: `{"members": "nope"}`}}
	h.Handle(gateway.Client(), job)

	thrown := gateway.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, string(errors.ErrCodeInvalidJobVariables), thrown[0].ErrorCode)
}

func TestOutputMatchesSchema(t *testing.T) {
	h := createTestHandler(t, nil, nil)
	out, err := h.Execute(context.Background(), &Input{Members: family()})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	result, err := validation.ValidateJSON(string(raw), GetOutputSchema())
	require.NoError(t, err)
	assert.True(t, result.Valid, "output errors: %v", result.GetErrorMessages())
}

func TestOutputSchema_EmptyPopulation(t *testing.T) {
	h := createTestHandler(t, nil, nil)
	out, err := h.Execute(context.Background(), &Input{Members: []tree.FamilyMember{}})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalMembers":0,"livingMembers":0,"branches":[],"subBranches":[]}`, string(raw))
}
