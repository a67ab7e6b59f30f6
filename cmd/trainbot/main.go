package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/NeverDieOne/train-bot/core/buildinfo"
	"github.com/NeverDieOne/train-bot/core/cmd"
	"github.com/NeverDieOne/train-bot/internal/bot"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	log.Printf("train-bot %s (%s, built %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			appCfg, ok := cfg.(*bot.Config)
			if !ok {
				return nil, errUnexpectedConfig
			}
			return bot.New(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("train-bot: %v", err)
	}
}

type configError string

func (e configError) Error() string { return string(e) }

const errUnexpectedConfig = configError("unexpected config type")
