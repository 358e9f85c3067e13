package telegram

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/peers"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"github.com/msgtv/Gifts-Buyer/internal/config"
)

// ConsoleInput реализует ввод кода с клавиатуры
type ConsoleInput struct{}

func (c ConsoleInput) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	fmt.Print("Введите код из Telegram: ")
	text, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

type Client struct {
	client   *telegram.Client
	api      *tg.Client
	peers    *peers.Manager
	Phone    string
	Password string
}

func NewClient(cfg config.Telegram) (*Client, error) {
	sessionDir := "storage/sessions"
	if err := os.MkdirAll(sessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	sessionStorage := &telegram.FileSessionStorage{
		Path: filepath.Join(sessionDir, "account.json"),
	}

	client := telegram.NewClient(cfg.ApiID, cfg.ApiHash, telegram.Options{
		SessionStorage: sessionStorage,
		Logger:         zap.NewNop(),
	})

	api := client.API()

	return &Client{
		client:   client,
		api:      api,
		peers:    peers.Options{}.Build(api),
		Phone:    cfg.Phone,
		Password: cfg.Password,
	}, nil
}

// Start поднимает соединение и держит его открытым. Реконнекты дальше —
// забота gotd, отдельного "ensure connected" вызова у клиента нет.
func (c *Client) Start(ctx context.Context, onReady func() error) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status error: %w", err)
		}

		if !status.Authorized {
			logger(ctx).Info("User not authorized, starting login flow...")
			if err := c.authenticate(ctx); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			logger(ctx).Info("Authentication successful!")
		} else {
			logger(ctx).Info("User already authorized")
		}

		// Сигнализируем наверх, что соединение установлено и авторизация
		// прошла. Детектор может начинать слать запросы.
		if onReady != nil {
			if err := onReady(); err != nil {
				return err
			}
		}

		<-ctx.Done()
		return ctx.Err()
	})
}

func (c *Client) authenticate(ctx context.Context) error {
	userAuth := auth.Constant(
		c.Phone,
		c.Password,
		ConsoleInput{},
	)

	flow := auth.NewFlow(
		userAuth,
		auth.SendCodeOptions{},
	)

	return c.client.Auth().IfNecessary(ctx, flow)
}
