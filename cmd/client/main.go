package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kietpt2003/fpt-playground-realtime/internal/domain"
)

var (
	serverURL string
	token     string
	senderID  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chat-client",
		Short: "Interactive client for the realtime chat gateway",
		Run:   runClient,
	}

	cobra.OnInitialize(loadConfig)

	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "Gateway WebSocket URL (overrides config)")
	rootCmd.Flags().StringVarP(&token, "token", "t", "", "Bearer token (overrides config)")
	rootCmd.Flags().StringVarP(&senderID, "user", "u", "", "Sender ID stamped on outgoing messages")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.url", "ws://localhost:8080/ws")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	if serverURL == "" {
		serverURL = viper.GetString("server.url")
	}
	if token == "" {
		token = viper.GetString("token")
	}
	if senderID == "" {
		senderID = viper.GetString("user")
	}
}

func runClient(cmd *cobra.Command, args []string) {
	if token == "" {
		log.Fatal("A bearer token is required (--token or config)")
	}

	u, err := url.Parse(serverURL)
	if err != nil {
		log.Fatalf("Invalid server URL: %v", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	log.Printf("Connecting to %s...", serverURL)
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	log.Println("Connection successful!")

	go readPump(conn)
	handleStdin(conn)
}

// readPump prints every frame the server pushes.
func readPump(conn *websocket.Conn) {
	defer conn.Close()
	for {
		var frame domain.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			log.Printf("Connection closed: %v", err)
			os.Exit(0)
		}
		payload, _ := json.Marshal(frame.Payload)
		fmt.Printf("\r[%s] %s\n> ", frame.Type, payload)
	}
}

// handleStdin reads commands from the terminal and sends them as frames.
func handleStdin(conn *websocket.Conn) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Commands: /join <conv> | /room <conv> <message> | /dm <user> <conv> <message>")
	fmt.Print("> ")

	for {
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "" {
			fmt.Print("> ")
			continue
		}

		frame, err := parseCommand(input)
		if err != nil {
			fmt.Printf("\r[ERROR] %v\n> ", err)
			continue
		}
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("Write error: %v", err)
			return
		}
		fmt.Print("> ")
	}
}

func parseCommand(input string) (*domain.Frame, error) {
	switch {
	case strings.HasPrefix(input, "/join "):
		parts := strings.SplitN(input, " ", 2)
		return &domain.Frame{
			Type:    "join",
			Payload: domain.JoinRoomPayload{ConversationID: parts[1]},
		}, nil
	case strings.HasPrefix(input, "/room "):
		parts := strings.SplitN(input, " ", 3)
		if len(parts) < 3 {
			return nil, fmt.Errorf("use: /room <conv> <message>")
		}
		return &domain.Frame{
			Type: "send_room",
			Payload: domain.SendRoomPayload{
				SenderID:       senderID,
				ConversationID: parts[1],
				Content:        parts[2],
			},
		}, nil
	case strings.HasPrefix(input, "/dm "):
		parts := strings.SplitN(input, " ", 4)
		if len(parts) < 4 {
			return nil, fmt.Errorf("use: /dm <user> <conv> <message>")
		}
		return &domain.Frame{
			Type: "send_direct",
			Payload: domain.SendDirectPayload{
				SenderID:       senderID,
				RecipientID:    parts[1],
				ConversationID: parts[2],
				Content:        parts[3],
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown command")
	}
}
