package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"guestrsvp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Guest
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, event_id, kind, .* FROM guests WHERE id = \$1`).
					WithArgs("g-1").
					WillReturnRows(sqlmock.NewRows(guestColumnNames).
						AddRow("g-1", "ev-1", "individual", "Ana", "Ana P", "+52 55", "ana@example.com", "vegan",
							true, 2, 0, "pending", "{}", "tok", now, now))
			},
			want: &domain.Guest{
				ID: "g-1", EventID: "ev-1", Kind: domain.GuestKindIndividual, DisplayName: "Ana",
				Contact: domain.Contact{Name: "Ana P", Phone: "+52 55", Email: "ana@example.com"}, Note: "vegan",
				AllowPlusOne: true, SeatsReserved: 2, Status: domain.GuestStatusPending,
				MemberNames: []string{}, SecretToken: "tok", CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM guests WHERE id = \$1`).WithArgs("g-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewGuestRepository(db).GetByID(ctx, "g-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuestRepository_ListByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM guests WHERE event_id = \$1 ORDER BY created_at DESC`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(guestColumnNames).
			AddRow("g-2", "ev-1", "group", "Fam", "", "", "", "", false, 5, 5, "confirmed", "{Juan}", "t2", now, now).
			AddRow("g-1", "ev-1", "individual", "Ana", "", "", "", "", false, 1, 0, "declined", nil, "t1", now, now))

	guests, err := NewGuestRepository(db).ListByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, []string{"Juan"}, guests[0].MemberNames)
	assert.Equal(t, []string{}, guests[1].MemberNames)
	assert.Equal(t, domain.GuestStatusDeclined, guests[1].Status)
}

func TestGuestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM guests WHERE id = \$1`).WithArgs("g-9").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewGuestRepository(db).Delete(context.Background(), "g-9")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
