package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/geordanr/xwing-backend/internal/database"
	"github.com/geordanr/xwing-backend/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFactions = []string{"Rebel Alliance", "Galactic Empire", "Scum and Villainy"}

func setupSquadService(t *testing.T) (*SquadService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewSquadService(store.New(db), testFactions), mock
}

func squadRow(id, userID, name, faction, serialized string) *pgxmock.Rows {
	body, _ := json.Marshal(map[string]string{"serialized": serialized})
	return pgxmock.NewRows([]string{
		"id", "type", "user_id", "name", "faction", "body", "revision",
	}).AddRow(id, "squad", userID, name, faction, json.RawMessage(body), int64(1))
}

func expectNameCount(mock pgxmock.PgxPoolIface, userID, name string, count int64) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents`).
		WithArgs(userID, name).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
}

func TestSquadService_Create(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 0)
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "squad", "user-google-1", "Red Five", "Rebel Alliance", json.RawMessage(`{"serialized":"abc"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(1)))

	id, err := svc.Create(ctx, "user-google-1", "Red Five", "Rebel Alliance", "abc", nil)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "squad_"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Create_TrimsInputs(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 0)
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "squad", "user-google-1", "Red Five", "Rebel Alliance", json.RawMessage(`{"serialized":"abc"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(1)))

	_, err := svc.Create(ctx, "user-google-1", "  Red Five  ", " Rebel Alliance ", " abc ", nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Create_NameConflict(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 1)

	_, err := svc.Create(ctx, "user-google-1", "Red Five", "Rebel Alliance", "abc", nil)

	assert.ErrorIs(t, err, ErrNameConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Create_SameNameDifferentUser(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	// Names are only unique within one user's squads.
	expectNameCount(mock, "user-google-bob", "Red Five", 0)
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "squad", "user-google-bob", "Red Five", "Rebel Alliance", json.RawMessage(`{"serialized":"xyz"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(1)))

	_, err := svc.Create(ctx, "user-google-bob", "Red Five", "Rebel Alliance", "xyz", nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Create_StorageError(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 0)
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(pgxmock.AnyArg(), "squad", "user-google-1", "Red Five", "Rebel Alliance", json.RawMessage(`{"serialized":"abc"}`)).
		WillReturnError(assert.AnError)

	_, err := svc.Create(ctx, "user-google-1", "Red Five", "Rebel Alliance", "abc", nil)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNameConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Update_RenameToSameNameSucceeds(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	// No availability check may happen when the name is unchanged;
	// the only expectations are the fetch and the save.
	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-1", "Red Five", "Rebel Alliance", "abc"))
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs("squad_1", "squad", "user-google-1", "Red Five", "Rebel Alliance", json.RawMessage(`{"serialized":"def"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(2)))

	id, err := svc.Update(ctx, "squad_1", "user-google-1", "Red Five", "Rebel Alliance", "def", nil)

	require.NoError(t, err)
	assert.Equal(t, "squad_1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Update_Rename(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-1", "Red Five", "Rebel Alliance", "abc"))
	expectNameCount(mock, "user-google-1", "Red Six", 0)
	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs("squad_1", "squad", "user-google-1", "Red Six", "Rebel Alliance", json.RawMessage(`{"serialized":"abc"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"revision"}).AddRow(int64(2)))

	_, err := svc.Update(ctx, "squad_1", "user-google-1", "Red Six", "Rebel Alliance", "abc", nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Update_RenameToTakenName(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-1", "Red Five", "Rebel Alliance", "abc"))
	expectNameCount(mock, "user-google-1", "Red Six", 1)

	_, err := svc.Update(ctx, "squad_1", "user-google-1", "Red Six", "Rebel Alliance", "abc", nil)

	assert.ErrorIs(t, err, ErrNameConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Update_Forbidden(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-bob", "Red Five", "Rebel Alliance", "abc"))

	_, err := svc.Update(ctx, "squad_1", "user-google-alice", "Red Five", "Rebel Alliance", "abc", nil)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Update_NotFound(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(ctx, "squad_missing", "user-google-1", "Red Five", "Rebel Alliance", "abc", nil)

	assert.ErrorIs(t, err, ErrSquadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Delete(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-1", "Red Five", "Rebel Alliance", "abc"))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("squad_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, "squad_1", "user-google-1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_Delete_Forbidden(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	// Ownership fails before any delete is issued, so the squad stays.
	mock.ExpectQuery(`SELECT id, type, user_id, name, faction, body, revision`).
		WithArgs("squad_1").
		WillReturnRows(squadRow("squad_1", "user-google-bob", "Red Five", "Rebel Alliance", "abc"))

	err := svc.Delete(ctx, "squad_1", "user-google-alice")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_List_BucketsEveryFaction(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "name", "faction", "serialized", "additional_data",
	}).AddRow("squad_1", "user-google-1", "Red Five", "Rebel Alliance", "abc", []byte(nil))

	mock.ExpectQuery(`SELECT id, user_id, name, faction`).
		WithArgs("user-google-1").
		WillReturnRows(rows)

	result, err := svc.List(ctx, "user-google-1")

	require.NoError(t, err)
	require.Len(t, result, len(testFactions))
	assert.Len(t, result["Rebel Alliance"], 1)
	assert.Empty(t, result["Galactic Empire"])
	assert.Empty(t, result["Scum and Villainy"])
	assert.Equal(t, "Red Five", result["Rebel Alliance"][0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_List_UnknownFactionGetsOwnBucket(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "name", "faction", "serialized", "additional_data",
	}).AddRow("squad_1", "user-google-1", "First Order Raid", "First Order", "abc", []byte(nil))

	mock.ExpectQuery(`SELECT id, user_id, name, faction`).
		WithArgs("user-google-1").
		WillReturnRows(rows)

	result, err := svc.List(ctx, "user-google-1")

	require.NoError(t, err)
	assert.Len(t, result["First Order"], 1)
	assert.Empty(t, result["Rebel Alliance"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_NameAvailable(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 0)

	available, err := svc.NameAvailable(ctx, "user-google-1", "Red Five")

	require.NoError(t, err)
	assert.True(t, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSquadService_NameAvailable_Taken(t *testing.T) {
	svc, mock := setupSquadService(t)
	ctx := context.Background()

	expectNameCount(mock, "user-google-1", "Red Five", 1)

	available, err := svc.NameAvailable(ctx, "user-google-1", "Red Five")

	require.NoError(t, err)
	assert.False(t, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
