package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/encukou/portingchart/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, state model.TooltipState) error {
	if state.Lines == nil {
		state.Lines = []model.TooltipLine{}
	}
	data, err := sonic.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
