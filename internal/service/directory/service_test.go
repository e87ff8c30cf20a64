package directory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore/sqlstoretest"
	"github.com/Adeela565/ClickSafe/internal/service/directory"
)

func newService(t *testing.T) (*directory.Service, *sqlstore.Store) {
	t.Helper()
	s := sqlstoretest.New(t)
	return directory.NewService(s), s
}

func TestCreateDepartment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	d, err := svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "  Finance "})
	require.NoError(t, err)
	assert.Equal(t, "Finance", d.Name)

	_, err = svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "Finance"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "   "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestRenameDepartment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	d, err := svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "Fin"})
	require.NoError(t, err)

	renamed, err := svc.RenameDepartment(ctx, d.ID, directory.DepartmentInput{Name: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", renamed.Name)

	_, err = svc.RenameDepartment(ctx, 999, directory.DepartmentInput{Name: "Nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRecipient_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    directory.RecipientInput
		field string
	}{
		{"missing email", directory.RecipientInput{Name: "No Mail"}, "email"},
		{"invalid email", directory.RecipientInput{Email: "not-an-address"}, "email"},
		{"bad department", directory.RecipientInput{Email: "a@x.com", DepartmentID: ptr(int64(-1))}, "department_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRecipient(ctx, tc.in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	_, err := svc.CreateRecipient(ctx, directory.RecipientInput{Email: "a@x.com", DepartmentID: ptr(int64(77))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAndUpdateRecipient(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	d, err := svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "HR"})
	require.NoError(t, err)

	r, err := svc.CreateRecipient(ctx, directory.RecipientInput{Email: " Alice@X.com ", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", r.Email)
	assert.Nil(t, r.DepartmentID)

	_, err = svc.CreateRecipient(ctx, directory.RecipientInput{Email: "alice@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	r, err = svc.UpdateRecipient(ctx, r.ID, directory.RecipientInput{Email: "alice@x.com", DepartmentID: &d.ID})
	require.NoError(t, err)
	assert.Equal(t, "HR", r.DepartmentName)
	assert.Empty(t, r.Name)

	members, err := svc.DepartmentRecipients(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	filtered, err := svc.ListRecipients(ctx, &d.ID)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestDeleteDepartment_KeepsRecipients(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	d, err := svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "Finance"})
	require.NoError(t, err)
	r, err := svc.CreateRecipient(ctx, directory.RecipientInput{Email: "a@x.com", DepartmentID: &d.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDepartment(ctx, d.ID))

	got, err := svc.GetRecipient(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DepartmentID)
}

func TestImportCSV(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	d, err := svc.CreateDepartment(ctx, directory.DepartmentInput{Name: "Sales"})
	require.NoError(t, err)
	_, err = svc.CreateRecipient(ctx, directory.RecipientInput{Email: "existing@x.com", Name: "Old Name"})
	require.NoError(t, err)

	input := "\ufeffName,Email Address\n" +
		"Ann,ann@x.com\n" +
		"No Mail,\n" +
		"Broken,not-an-email\n" +
		"New Name,existing@x.com\n" +
		"Ann Again,ANN@x.com\n" +
		"\"Smith, Bo\",bo@x.com\n"

	res, err := svc.ImportCSV(ctx, strings.NewReader(input), &d.ID)
	require.NoError(t, err)
	assert.Equal(t, &directory.ImportResult{Imported: 2, Skipped: 2, Duplicates: 2}, res)

	members, err := store.ListRecipientsByDepartment(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "ann@x.com", members[0].Email)
	assert.Equal(t, "Smith, Bo", members[1].Name)

	all, err := svc.ListRecipients(ctx, nil)
	require.NoError(t, err)
	for _, r := range all {
		if r.Email == "existing@x.com" {
			assert.Equal(t, "Old Name", r.Name, "duplicates are left untouched")
		}
	}
}

func TestImportCSV_FirstRowWithAddressIsData(t *testing.T) {
	svc, _ := newService(t)

	res, err := svc.ImportCSV(context.Background(), strings.NewReader("Email Person,email@x.com\nB,b@x.com\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
}

func TestImportCSV_UnknownDepartment(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("a,a@x.com\n"), ptr(int64(5)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
