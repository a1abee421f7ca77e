// Package logx is a thin structured-logging facade over zerolog.
//
// It exists so the rest of the bot never imports zerolog directly: components
// take a logx.Logger, derive scoped loggers with With(), and stay oblivious to
// where lines end up (console, file, or the operator's Telegram chat).
package logx
