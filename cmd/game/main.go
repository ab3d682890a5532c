package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"

	"github.com/miketheofan/dispatchlab/internal/config"
	"github.com/miketheofan/dispatchlab/internal/dispatch"
	"github.com/miketheofan/dispatchlab/internal/game"
	"github.com/miketheofan/dispatchlab/pkg/utils"
)

var errQuit = errors.New("quit requested")

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Console output is the game UI; logs go to the configured sink
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	svc := game.NewService(cfg.Game.Min, cfg.Game.Max, dispatch.NewSampler(), clockz.RealClock)
	store := game.NewCSVStore(cfg.Game.StatsFilePath, logger)

	if err := run(svc, store, logger); err != nil {
		logger.Error("Game loop failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(svc *game.Service, store *game.CSVStore, logger *zap.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Number Guessing Game!")
	fmt.Printf("Guess a number between %d and %d\n", svc.Min(), svc.Max())
	fmt.Println("Type 'QUIT' or 'Q' to exit at any time.")

	// Multi-game loop. Each iteration is one complete game with one guess.
	for {
		session := svc.NewGame()

		guess, err := readGuess(scanner)
		if errors.Is(err, errQuit) {
			printSummary(store)
			return nil
		}
		if err != nil {
			fmt.Println(err.Error())
			fmt.Println("Try again:")
			continue
		}

		if err := svc.ValidateGuess(guess); err != nil {
			var verr *dispatch.ValidationError
			if errors.As(err, &verr) {
				for _, violation := range verr.Violations {
					fmt.Println(violation)
				}
				fmt.Println("Try again with a different number:")
				continue
			}
			return err
		}

		outcome := session.ProcessGuess(guess, session.StartedAt)
		if outcome.Winner == game.WinnerUser {
			fmt.Printf("Correct! The number was %d. You WIN!\n", session.Target)
		} else {
			fmt.Printf("Wrong! The number was %d, you guessed %d. Computer WINS!\n", session.Target, guess)
		}

		if err := store.Append(outcome); err != nil {
			logger.Error("Failed to record game outcome", zap.Error(err))
		}

		fmt.Println("\nMake another guess to play again, or type QUIT to exit.")
	}
}

// readGuess reads one line and interprets it as a guess or a quit command.
func readGuess(scanner *bufio.Scanner) (int, error) {
	if !scanner.Scan() {
		return 0, errQuit
	}

	input := strings.TrimSpace(scanner.Text())
	if strings.EqualFold(input, "QUIT") || strings.EqualFold(input, "Q") {
		return 0, errQuit
	}

	guess, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.New("Invalid input! Please enter a numeric value.")
	}
	return guess, nil
}

func printSummary(store *game.CSVStore) {
	outcomes, err := store.ReadAll()
	if err != nil || len(outcomes) == 0 {
		fmt.Println("Thanks for playing!")
		return
	}

	stats := game.Calculate(outcomes)
	fmt.Println("\nSession statistics:")
	fmt.Printf("  Total games:  %d\n", stats.TotalGames)
	fmt.Printf("  Your wins:    %d\n", stats.UserWins)
	fmt.Printf("  Computer:     %d\n", stats.ComputerWins)
	fmt.Printf("  Win rate:     %.1f%%\n", stats.UserWinRate*100)
	fmt.Printf("  Hot number:   %d\n", stats.MostCommonWinningNumber)
	fmt.Println("Thanks for playing!")
}
