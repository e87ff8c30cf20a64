package directory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

const utf8BOM = "\ufeff"

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// ImportCSV reads "name,email" rows and creates a recipient per row.
//
// A UTF-8 byte-order mark is ignored. The first row is treated as a header
// only when its email column contains "email" and no "@". Rows with an
// empty or invalid email are skipped. Emails that already exist, in the
// store or earlier in the file, are counted as duplicates and left as they
// are. When departmentID is set every new recipient joins that department,
// which must exist.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, departmentID *int64) (*ImportResult, error) {
	if departmentID != nil {
		if _, err := s.repo.GetDepartment(ctx, *departmentID); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	res := &ImportResult{}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("record %d: %v", row, err)}
		}
		if row == 1 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
		}

		var name, email string
		if len(rec) > 0 {
			name = strings.TrimSpace(rec[0])
		}
		if len(rec) > 1 {
			email = strings.TrimSpace(rec[1])
		}

		if row == 1 && isHeader(email) {
			continue
		}
		if email == "" {
			res.Skipped++
			continue
		}

		in := RecipientInput{Email: email, Name: name, DepartmentID: departmentID}
		in.normalize()
		if err := s.check(&in); err != nil {
			res.Skipped++
			logger.Debug("import row skipped", "record", row, "reason", err.Error())
			continue
		}

		exists, err := s.repo.RecipientEmailExists(ctx, in.Email)
		if err != nil {
			return res, err
		}
		if exists {
			res.Duplicates++
			continue
		}
		if err := s.repo.CreateRecipient(ctx, &domain.Recipient{Email: in.Email, Name: in.Name, DepartmentID: in.DepartmentID}); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				res.Duplicates++
				continue
			}
			return res, err
		}
		res.Imported++
	}

	logger.Info("recipients imported",
		"imported", res.Imported, "skipped", res.Skipped, "duplicates", res.Duplicates)
	return res, nil
}

func isHeader(emailCol string) bool {
	v := strings.ToLower(emailCol)
	return strings.Contains(v, "email") && !strings.Contains(v, "@")
}
