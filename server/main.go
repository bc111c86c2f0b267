package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"latency_optimizer/server/cmd"
	"latency_optimizer/server/env"
	"latency_optimizer/server/logger"
	"latency_optimizer/server/models"
	"latency_optimizer/server/renv"
)

var cmdName = flag.String("cmd", "", "Command mode: optimize, verify, token")
var db = flag.String("db", "", "Database command: migrate, rollback, generate, status")
var migrationName = flag.String("name", "", "Migration name (for generate)")
var steps = flag.Int("steps", 1, "Number of migrations to rollback")
var input = flag.String("input", "", "Network file for -cmd optimize and -cmd verify")
var subject = flag.String("subject", "", "Token subject for -cmd token")

func main() {
	flag.Parse()

	// Parse environment configuration
	var envConfig *env.ENV
	renv.ParseCmd(&envConfig)
	envConfig.SetDefaults()
	env.E = envConfig

	logger.Init(&logger.Config{
		Level:  env.E.Log.Level,
		Pretty: *env.E.Log.Pretty,
	})
	logger.Infof("Starting %s...", env.E.ServerName)
	logger.Infof("Environment: %s", env.E.Environment)

	// Handle database commands
	if *db != "" {
		cmd.HandleDB(*db, *migrationName, *steps)
		return
	}

	// Handle other commands
	if *cmdName != "" {
		instance := models.NewModels(true)
		defer instance.Close()
		instance.RunCmd(*cmdName, models.CmdOptions{Input: *input, Subject: *subject})
		return
	}

	// Start server
	instance := models.NewModels(false)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	instance.Shutdown(10 * time.Second)
}
