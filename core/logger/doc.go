// Package logger records structured shell session events with zerolog.
package logger
