package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fi-dashboard-go/internal/chat"
	"fi-dashboard-go/internal/common"
	"fi-dashboard-go/internal/config"

	"go.uber.org/zap"
)

const help = `Commands:
  /voice   speak instead of typing
  /yes     save the pending entry
  /no      discard the pending entry
  /quit    exit
Anything else is sent to the assistant.`

// ANSI color helpers for console output.
const (
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

func printMessage(msg *chat.Message) {
	if msg == nil {
		return
	}
	color := colorCyan
	prefix := "assistant"
	if msg.Role == chat.RoleSystem {
		color = colorYellow
		prefix = "system"
	}
	fmt.Printf("%s%s>%s %s\n", color, prefix, colorReset, msg.Content)
}

func main() {
	debug := flag.Bool("debug", false, "Log at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger, _ := common.InitializeLogger(false)
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger(*debug)
	defer loggerCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	assistant := services.Chat
	assistant.Initialize()
	for _, msg := range assistant.Messages() {
		printMessage(&msg)
	}
	if !services.Voice.RecognitionSupported() {
		fmt.Printf("%s(voice input unavailable: set VOICE_LISTEN_CMD)%s\n", colorGray, colorReset)
	}
	fmt.Println(help)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Println(help)
		case "/voice":
			fmt.Printf("%s(listening...)%s\n", colorGray, colorReset)
			printMessage(assistant.HandleVoiceInput(ctx))
		case "/yes":
			if reply := assistant.ConfirmAction(ctx); reply != nil {
				printMessage(reply)
			} else {
				fmt.Println("Nothing to confirm.")
			}
		case "/no":
			if reply := assistant.CancelAction(); reply != nil {
				printMessage(reply)
			} else {
				fmt.Println("Nothing to cancel.")
			}
		default:
			printMessage(assistant.SendMessage(ctx, line))
		}

		if ctx.Err() != nil {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		zap.L().Error("Failed to read input", zap.Error(err))
	}
}
