package roster

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunrisehealth/portal-api/internal/model"
)

func TestFilter(t *testing.T) {
	patients := []model.Patient{
		{ID: 1, Name: "Jessica Wilson", MemberID: "BCBS-884512"},
		{ID: 2, Name: "John Doe", MemberID: "AET-105873"},
		{ID: 3, Name: "James Thomas", MemberID: "UHC-330291"},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []int
	}{
		{"empty term returns all", "", []int{1, 2, 3}},
		{"matches name substring", "wilson", []int{1}},
		{"case insensitive name", "JAMES", []int{3}},
		{"matches member id substring", "105873", []int{2}},
		{"case insensitive member id", "bcbs", []int{1}},
		{"shared substring matches multiple", "j", []int{1, 2, 3}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(patients, tt.term)
			var ids []int
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name           string
		page, n, size  int
		wantPage       int
		wantTotalPages int
	}{
		{"exact multiple", 2, 10, 5, 2, 2},
		{"partial last page", 3, 11, 5, 3, 3},
		{"page zero clamps to one", 0, 10, 5, 1, 2},
		{"negative page clamps to one", -4, 10, 5, 1, 2},
		{"beyond last clamps to last", 5, 11, 5, 3, 3},
		{"empty list renders page one", 1, 0, 5, 1, 1},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			page, total := ClampPage(tt.page, tt.n, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantTotalPages, total)
		})
	}
}

func TestListPatientsPagination(t *testing.T) {
	var patients []model.Patient
	for i := 1; i <= 12; i++ {
		patients = append(patients, model.Patient{
			ID:       i,
			Name:     fmt.Sprintf("Patient %02d", i),
			MemberID: fmt.Sprintf("M-%03d", i),
		})
	}
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}), patients...)

	page, err := svc.ListPatients(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 5)
	assert.Equal(t, 6, page.Items[0].ID)
	assert.Equal(t, 10, page.Items[4].ID)

	// Last page holds the remainder.
	page, err = svc.ListPatients(context.Background(), "", 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 11, page.Items[0].ID)

	// Past-the-end requests clamp to the last page.
	page, err = svc.ListPatients(context.Background(), "", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	require.Len(t, page.Items, 2)
}

func TestListPatientsFilteredAndPaged(t *testing.T) {
	svc := hydrated(newTestService(&fakeRepo{}, &fakeSeeder{}, &fakeAgent{}),
		model.Patient{ID: 1, Name: "Jessica Wilson", MemberID: "BCBS-1"},
		model.Patient{ID: 2, Name: "John Doe", MemberID: "AET-1"},
		model.Patient{ID: 3, Name: "Jane Wilson", MemberID: "UHC-1"},
	)

	page, err := svc.ListPatients(context.Background(), "wilson", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Items[0].ID)
	assert.Equal(t, 3, page.Items[1].ID)
}
