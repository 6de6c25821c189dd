// Package logger provides structured logging for twitterkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("twitterctl").WithComponent("twitter")
//	log.Info("request done", logger.Fields("status", 200))
package logger
