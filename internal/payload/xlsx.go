package payload

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Workbook layout: a "Lesson" sheet of key/value rows, a "Vocabulary" sheet
// and an optional "Kanji" sheet, both with a header row naming the columns.
const (
	SheetLesson     = "Lesson"
	SheetVocabulary = "Vocabulary"
	SheetKanji      = "Kanji"
)

func decodeXLSX(r io.Reader) (*Lesson, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", entities.ErrInvalidInput, err)
	}
	defer f.Close()

	lesson := &Lesson{}

	rows, err := f.GetRows(SheetLesson)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", entities.ErrInvalidInput, SheetLesson, err)
	}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if err := setLessonField(lesson, row[0], row[1]); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", entities.ErrInvalidInput, SheetLesson, i+1, err)
		}
	}

	vocab, err := readTable(f, SheetVocabulary, true)
	if err != nil {
		return nil, err
	}
	for i, rec := range vocab {
		in := entities.VocabInput{
			Word:     rec["word"],
			Reading:  rec["reading"],
			Meaning:  rec["meaning"],
			Type:     entities.WordType(rec["type"]),
			Category: rec["category"],
		}
		if raw := rec["order"]; raw != "" {
			order, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: order %q is not a number", entities.ErrInvalidInput, SheetVocabulary, i+2, raw)
			}
			in.Order = &order
		}
		lesson.Vocab = append(lesson.Vocab, in)
	}

	kanji, err := readTable(f, SheetKanji, false)
	if err != nil {
		return nil, err
	}
	for _, rec := range kanji {
		lesson.Kanji = append(lesson.Kanji, entities.KanjiInput{
			Kanji:   rec["kanji"],
			Meaning: rec["meaning"],
			Onyomi:  splitList(rec["onyomi"]),
			Kunyomi: splitList(rec["kunyomi"]),
		})
	}

	return lesson, nil
}

func setLessonField(l *Lesson, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "title":
		l.Title = &value
	case "slug":
		l.Slug = value
	case "description":
		l.Description = &value
	case "locked":
		if value == "" {
			return nil
		}
		locked, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("locked %q is not a boolean", value)
		}
		l.Locked = &locked
	case "number":
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("number %q is not a number", value)
		}
		l.Number = &n
	}
	return nil
}

// readTable returns the data rows of a sheet keyed by lower-cased header.
// Rows with every cell empty are skipped.
func readTable(f *excelize.File, sheet string, required bool) ([]map[string]string, error) {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if required {
			return nil, fmt.Errorf("%w: sheet %q is missing", entities.ErrInvalidInput, sheet)
		}
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", entities.ErrInvalidInput, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		empty := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			rec[header[i]] = cell
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
