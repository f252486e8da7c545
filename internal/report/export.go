package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/xworks/readiness/internal/assessment"
)

const (
	studentsSheet    = "Students"
	topicScoresSheet = "Topic Scores"
)

var (
	studentsHeader = []any{
		"Student ID", "Name", "Email", "Registration No.",
		"Attempt ID", "Bank", "Score", "Total Questions", "Score %", "Readiness", "Placement", "Attempted At",
	}
	topicScoresHeader = []any{
		"Student ID", "Name", "Attempt ID", "Topic", "Correct", "Total",
		"Weighted Score", "Normalized Score", "Classification",
	}
)

// TopicRow is one topic score line in the export, keyed to its student.
type TopicRow struct {
	StudentID int64
	assessment.StudentTopicScore
}

// WriteCollegeWorkbook writes an XLSX workbook for one college: a Students
// sheet with one row per attempt (or one bare row for a student with none)
// and a Topic Scores sheet.
func WriteCollegeWorkbook(w io.Writer, college assessment.College, students []assessment.CollegeStudent, topics []TopicRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(topicScoresSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("%s readiness results", college.Name),
		Creator: "readiness",
	}); err != nil {
		return fmt.Errorf("setting properties: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	names := make(map[int64]string, len(students))
	rows := [][]any{studentsHeader}
	for _, s := range students {
		names[s.ID] = s.Name
		if len(s.Assessments) == 0 {
			rows = append(rows, []any{s.ID, s.Name, s.Email, s.RegistrationNumber})
			continue
		}
		for _, a := range s.Assessments {
			rows = append(rows, []any{
				s.ID, s.Name, s.Email, s.RegistrationNumber,
				a.ID, a.BankID, a.CorrectCount, a.QuestionCount,
				round1(a.ScorePercent), round1(a.Readiness), string(PlacementFor(a.Readiness)),
				a.AttemptedAt.UTC().Format("2006-01-02 15:04"),
			})
		}
	}
	if err := writeRows(f, studentsSheet, rows, bold); err != nil {
		return err
	}

	rows = [][]any{topicScoresHeader}
	for _, t := range topics {
		rows = append(rows, []any{
			t.StudentID, names[t.StudentID], t.AttemptID, t.Topic, t.Correct, t.Total,
			round1(t.WeightedScore), round1(t.NormalizedScore), string(t.Classification),
		})
	}
	if err := writeRows(f, topicScoresSheet, rows, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("%s column width: %w", sheet, err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
