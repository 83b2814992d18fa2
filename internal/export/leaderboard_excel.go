package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Spok95/telegram-forecast-bot/internal/models"
	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook собирает книгу из листов; первый лист переименовывается
// из стандартного Sheet1.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	f := excelize.NewFile()

	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		if err := ApplyDefaultExcelFormatting(f, name); err != nil {
			return nil, fmt.Errorf("format sheet %s: %w", name, err)
		}
	}
	return &Workbook{File: f}, nil
}

func (w *Workbook) SaveTemp(prefix string) (string, error) {
	name := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	path := "/tmp/" + name
	return path, w.File.SaveAs(path)
}

// LeaderboardSheet — лист "Лидеры" из строк таблицы лидеров.
func LeaderboardSheet(entries []models.LeaderboardEntry) SheetSpec {
	s := SheetSpec{
		Title:  "Лидеры",
		Header: []string{"Место", "Игрок", "Баллы", "Прогнозов", "Сбылось"},
	}
	for _, e := range entries {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(e.Rank),
			e.Name,
			strconv.Itoa(e.Points),
			strconv.Itoa(e.Predictions),
			strconv.Itoa(e.Won),
		})
	}
	return s
}

// PredictionsSheet — лист "Прогнозы" с историей за интервал отчёта.
func PredictionsSheet(preds []models.PredictionWithUser) SheetSpec {
	s := SheetSpec{
		Title: "Прогнозы",
		Header: []string{
			"Дата", "Игрок", "Инструмент", "Класс", "Направление",
			"Период", "Половина", "Вход", "Закрытие", "Баллы", "Статус",
		},
	}
	for _, p := range preds {
		half := "вторая"
		if p.FirstHalf {
			half = "первая"
		}
		closePrice, points := "", ""
		if p.ClosePrice != nil {
			closePrice = strconv.FormatFloat(*p.ClosePrice, 'f', 4, 64)
		}
		if p.Points != nil {
			points = strconv.Itoa(*p.Points)
		}
		s.Rows = append(s.Rows, []string{
			p.CreatedAt.Format("02.01.2006 15:04"),
			p.PlayerName,
			p.Symbol,
			p.Class,
			string(p.Direction),
			p.PeriodLabel,
			half,
			strconv.FormatFloat(p.EntryPrice, 'f', 4, 64),
			closePrice,
			points,
			p.Status,
		})
	}
	return s
}
