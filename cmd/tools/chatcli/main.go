package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vivekdev/portfolio/backend/internal/config"
	"github.com/vivekdev/portfolio/backend/internal/logger"
	chatmodel "github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/widget"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	relayURL string
	delay    time.Duration
	interval time.Duration
	plain    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "chatcli",
		Short: "终端版聊天组件，通过 HTTP 连接作品集后端",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.SetupWriter(cmd.ErrOrStderr(), config.LogConfig{Level: cfg.Log.Level, Format: "console"})

			opts.interval = cfg.Widget.SuggestionInterval
			if !cmd.Flags().Changed("relay") {
				opts.relayURL = cfg.Widget.RelayURL
			}
			if !cmd.Flags().Changed("delay") {
				opts.delay = cfg.Widget.ReplyDelay
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVar(&opts.relayURL, "relay", "http://localhost:8080", "后端地址")
	root.Flags().DurationVar(&opts.delay, "delay", time.Second, "回复最短展示延迟")
	root.Flags().BoolVar(&opts.plain, "plain", false, "不使用 Markdown 渲染")
	return root
}

func run(ctx context.Context, in io.Reader, out io.Writer, opts *options) error {
	client := widget.NewClient(opts.relayURL, &http.Client{Timeout: 60 * time.Second})

	p, err := client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	w := widget.New(client, widget.Options{
		Greeting:    p.Greeting,
		Suggestions: p.Suggestions,
		ReplyDelay:  opts.delay,
	})

	render := plainRenderer
	if !opts.plain {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			log.Warn().Err(err).Msg("markdown renderer unavailable, falling back to plain output")
		} else {
			render = func(text string) string {
				rendered, err := renderer.Render(text)
				if err != nil {
					return plainRenderer(text)
				}
				return rendered
			}
		}
	}

	var outMu sync.Mutex
	printf := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	// 面板关闭时轮换推荐问题，打开后停止
	rotateCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go w.RotateSuggestions(rotateCtx, opts.interval, func(next string) {
		printf("\rTry asking: %s\n> ", next)
	})

	printf("%s's assistant (%s). Press Enter to open the chat. Commands: /suggest, /quit\n", p.ShortName, opts.relayURL)
	printf("Try asking: %s\n", w.Suggestion())

	scanner := bufio.NewScanner(in)
	for {
		printf("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			return nil
		}

		if !w.IsOpen() {
			w.Open()
			for _, msg := range w.Transcript() {
				printf("%s", render(msg.Content))
			}
		}

		var (
			reply chatmodel.Message
			err   error
		)
		switch line {
		case "":
			continue
		case "/suggest":
			printf("> %s\n", w.Suggestion())
			reply, err = w.SubmitSuggestion(ctx)
		default:
			w.SetInput(line)
			reply, err = w.SubmitInput(ctx)
		}
		if err != nil {
			printf("%v\n", err)
			continue
		}
		printf("%s", render(reply.Content))

		if ctx.Err() != nil {
			return nil
		}
	}
}

func plainRenderer(text string) string {
	return text + "\n\n"
}
