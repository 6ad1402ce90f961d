package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/pipwatch/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		feed             string
		strategy         string
		pricer           string
		intervalStr      string
		cycleIntervalStr string
		minVotesStr      string
		thresholdStr     string
		telegramToken    string
		telegramChatID   string
		webAddr          string
		confirm          bool
	)

	// defaults
	intervalStr = "15m"
	cycleIntervalStr = "1m"
	minVotesStr = "3"
	thresholdStr = "0.6"
	webAddr = ":8080"

	// step 1: welcome
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's get your signal bot running.\n"))

	// market data feed
	fmt.Println(stepStyle.Render("STEP 1: MARKET DATA"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Market Data Feed").
				Options(
					huh.NewOption("Yahoo Finance", "yahoo"),
					huh.NewOption("Binance", "binance"),
				).
				Value(&feed),
			huh.NewSelect[string]().
				Title("Live Price Venue for Pnl Backfill").
				Options(
					huh.NewOption("None (disable backfill)", ""),
					huh.NewOption("Yahoo Finance", "yahoo"),
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
				).
				Value(&pricer),
		),
	).Run()
	if err != nil {
		return err
	}

	// strategy
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: STRATEGY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your decision strategy").
				Options(
					huh.NewOption("Rule Vote (indicator voting)", "rulevote"),
					huh.NewOption("Classifier (logistic model)", "classifier"),
				).
				Value(&strategy),
		),
	).Run()
	if err != nil {
		return err
	}

	// strategy specifics
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: STRATEGY SETTINGS"))
	if strategy == "rulevote" {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Minimum Votes").
					Description("Votes out of 4 required to emit a signal (1-4)").
					Value(&minVotesStr).
					Validate(func(s string) error {
						n, err := strconv.Atoi(s)
						if err != nil || n < 1 || n > 4 {
							return fmt.Errorf("must be an integer between 1 and 4")
						}
						return nil
					}),
			),
		).Run()
	} else {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Probability Threshold").
					Description("Minimum model probability to emit a signal (0-1)").
					Value(&thresholdStr).
					Validate(func(s string) error {
						p, err := strconv.ParseFloat(s, 64)
						if err != nil || p <= 0 || p >= 1 {
							return fmt.Errorf("must be a number between 0 and 1")
						}
						return nil
					}),
			),
		).Run()
	}
	if err != nil {
		return err
	}

	// timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bar Interval").
				Description("Candle cadence (e.g. 5m, 15m, 1h)").
				Value(&intervalStr),
			huh.NewInput().
				Title("Cycle Interval").
				Description("Pause between evaluation cycles (e.g. 30s, 1m, 5m)").
				Value(&cycleIntervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// notifications and dashboard
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: ALERTS & DASHBOARD"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram Bot Token").
				Description("Leave empty to disable alerts").
				Value(&telegramToken).
				EchoMode(huh.EchoModePassword),
			huh.NewInput().
				Title("Telegram Chat ID").
				Value(&telegramChatID),
			huh.NewInput().
				Title("Dashboard Address").
				Description("Leave empty to disable the web dashboard").
				Value(&webAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PIPWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Feed: %s\nStrategy: %s\nInterval: %s\nCycle: %s\n",
		feed, strategy, intervalStr, cycleIntervalStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cycleInterval, _ := time.ParseDuration(cycleIntervalStr)
	minVotes, _ := strconv.Atoi(minVotesStr)
	threshold, _ := strconv.ParseFloat(thresholdStr, 64)

	cfgTmp := config.ConfigTmp{
		Feed:           feed,
		PricerPlatform: pricer,
		Strategy:       strategy,
		Interval:       intervalStr,
		CycleInterval:  cycleInterval,
		TelegramToken:  telegramToken,
		TelegramChatID: telegramChatID,
		WebAddr:        webAddr,
	}
	if strategy == "rulevote" {
		cfgTmp.MinVotes = minVotes
	} else {
		cfgTmp.ProbThreshold = threshold
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting bot...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}
