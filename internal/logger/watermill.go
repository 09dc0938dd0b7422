package logger

import (
	"github.com/ThreeDotsLabs/watermill"
)

// WatermillLogger implements watermill.LoggerAdapter on top of zap
type WatermillLogger struct {
	logger *Logger
	fields watermill.LogFields
}

func (w *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Errorw(msg, append(w.keyvals(fields), "error", err)...)
}

func (w *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	w.logger.Infow(msg, w.keyvals(fields)...)
}

func (w *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debugw(msg, w.keyvals(fields)...)
}

func (w *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.logger.Debugw(msg, w.keyvals(fields)...)
}

func (w *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: w.logger, fields: w.fields.Add(fields)}
}

func (w *WatermillLogger) keyvals(fields watermill.LogFields) []interface{} {
	all := w.fields.Add(fields)
	kv := make([]interface{}, 0, len(all)*2)
	for k, v := range all {
		kv = append(kv, k, v)
	}
	return kv
}
