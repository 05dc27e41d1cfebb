package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/server/models"
)

func newDiaryService(t *testing.T, rm *fakeRepoMgr) *DiaryService {
	t.Helper()
	return NewDiaryService(newSQLMockDB(t), rm)
}

func TestDiaryService_SetupOnce(t *testing.T) {
	repo := &fakeDiaryMetaRepo{}
	svc := newDiaryService(t, &fakeRepoMgr{meta: repo})

	err := svc.Setup(context.Background(), "u-1", []byte("salt"), []byte("token"))
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "u-1", repo.created.UserID)
}

func TestDiaryService_SetupTwiceRejected(t *testing.T) {
	repo := &fakeDiaryMetaRepo{createErr: common.ErrAlreadyInitialized}
	svc := newDiaryService(t, &fakeRepoMgr{meta: repo})

	err := svc.Setup(context.Background(), "u-1", []byte("salt"), []byte("token"))
	assert.ErrorIs(t, err, common.ErrAlreadyInitialized)
}

func TestDiaryService_Setup_Validation(t *testing.T) {
	svc := newDiaryService(t, &fakeRepoMgr{meta: &fakeDiaryMetaRepo{}})

	err := svc.Setup(context.Background(), "u-1", nil, []byte("token"))
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.Setup(context.Background(), "u-1", []byte("salt"), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDiaryService_GetMeta_NotFound(t *testing.T) {
	repo := &fakeDiaryMetaRepo{getErr: common.ErrNotFound}
	svc := newDiaryService(t, &fakeRepoMgr{meta: repo})

	_, err := svc.GetMeta(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiaryService_SaveNote(t *testing.T) {
	repo := &fakeNotesRepo{}
	svc := newDiaryService(t, &fakeRepoMgr{notes: repo})

	note := &models.Note{
		ID: "n-1", UserID: "u-1", Scope: "global", Type: "note",
		Ciphertext: []byte{1}, Nonce: []byte{2}, CreatedAt: time.Now(),
	}
	require.NoError(t, svc.SaveNote(context.Background(), note))
	require.Len(t, repo.upserted, 1)
}

func TestDiaryService_SaveNote_RejectsEmptyCiphertext(t *testing.T) {
	svc := newDiaryService(t, &fakeRepoMgr{notes: &fakeNotesRepo{}})

	err := svc.SaveNote(context.Background(), &models.Note{ID: "n-1", Nonce: []byte{2}})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDiaryService_DeleteNote_NotFound(t *testing.T) {
	repo := &fakeNotesRepo{deleteErr: common.ErrNotFound}
	svc := newDiaryService(t, &fakeRepoMgr{notes: repo})

	err := svc.DeleteNote(context.Background(), "u-1", "n-absent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
