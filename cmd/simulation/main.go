package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"hdt-be/internal/config"
	"hdt-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func between(lo, hi float64) *float64 {
	v := lo + rand.Float64()*(hi-lo)
	return &v
}

var activities = []string{"typing", "reading", "meeting", "idle", "debugging"}

func main() {
	cfg := config.Load()

	var (
		baseURL  string
		secret   string
		userID   string
		role     string
		samples  int
		interval time.Duration
		command  string
		taskType string
	)

	root := &cobra.Command{
		Use:   "simulation",
		Short: "Drive a digital-twin work session against a running API",
	}
	root.PersistentFlags().StringVar(&secret, "secret", cfg.App.JWTSecret, "JWT signing secret")
	root.PersistentFlags().StringVar(&userID, "user", uuid.NewString(), "user id placed in the token")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the given user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := serverutils.IssueToken(secret, userID, time.Duration(cfg.App.JWTExpirationHours)*time.Hour)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Create a profile, stream telemetry, submit a task and end the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := serverutils.IssueToken(secret, userID, time.Hour)
			if err != nil {
				return err
			}
			c := &client{baseURL: baseURL, token: token, http: &http.Client{Timeout: cfg.Orchestrator.ModelCallTimeout + 10*time.Second}}

			color.Cyan("=== Digital Twin Simulation ===")
			fmt.Printf("User: %s\n", userID)

			var profile struct {
				Id string `json:"id"`
			}
			if err := c.do(http.MethodPost, "/hdt/profiles", map[string]interface{}{"role_type": role}, &profile); err != nil {
				return err
			}
			color.Green("Profile %s created (%s)", profile.Id, role)

			var session struct {
				Id string `json:"id"`
			}
			if err := c.do(http.MethodPost, "/sessions/start", map[string]interface{}{"profile_id": profile.Id}, &session); err != nil {
				return err
			}
			color.Green("Session %s started", session.Id)

			for i := 0; i < samples; i++ {
				phys := map[string]interface{}{
					"session_id":             session.Id,
					"heart_rate":             between(60, 100),
					"heart_rate_variability": between(20, 80),
					"skin_temperature":       between(32, 35),
					"stress_level":           between(0.1, 0.8),
					"cognitive_load":         between(0.2, 0.9),
					"fatigue_score":          between(0, 0.6),
					"posture_score":          between(0.5, 1),
				}
				if err := c.do(http.MethodPost, "/monitoring/physiological", phys, nil); err != nil {
					color.Red("physiological sample %d: %v", i+1, err)
				}

				act := map[string]interface{}{
					"session_id":       session.Id,
					"activity_type":    activities[rand.Intn(len(activities))],
					"typing_speed":     between(0, 90),
					"mouse_movements":  rand.Intn(500),
					"application_name": "editor",
					"focus_score":      between(0.3, 1),
				}
				if err := c.do(http.MethodPost, "/monitoring/work-activity", act, nil); err != nil {
					color.Red("activity sample %d: %v", i+1, err)
				}
				fmt.Printf("  sample %d/%d sent\n", i+1, samples)
				time.Sleep(interval)
			}

			if command != "" {
				color.Yellow("Submitting %s task...", taskType)
				var task struct {
					Id           string                 `json:"id"`
					Status       string                 `json:"status"`
					ResultData   map[string]interface{} `json:"result_data"`
					ErrorMessage *string                `json:"error_message"`
				}
				body := map[string]interface{}{"session_id": session.Id, "task_type": taskType, "command_text": command}
				if err := c.do(http.MethodPost, "/tasks", body, &task); err != nil {
					return err
				}
				if task.Status == "completed" {
					color.Green("Task %s completed", task.Id)
					fmt.Printf("%v\n", task.ResultData["content"])
				} else if task.ErrorMessage != nil {
					color.Red("Task %s %s: %s", task.Id, task.Status, *task.ErrorMessage)
				}
			}

			if err := c.do(http.MethodPost, "/sessions/"+session.Id+"/end", map[string]interface{}{"notes": "simulated session"}, nil); err != nil {
				return err
			}

			var summary json.RawMessage
			if err := c.do(http.MethodGet, "/sessions/"+session.Id+"/summary", nil, &summary); err != nil {
				return err
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, summary, "", "  "); err != nil {
				return err
			}
			color.Cyan("--- Session Summary ---")
			fmt.Println(pretty.String())
			return nil
		},
	}
	runCmd.Flags().StringVar(&baseURL, "url", "http://localhost:"+cfg.App.Port+"/api", "API base URL")
	runCmd.Flags().StringVar(&role, "role", "software_engineer", "profile role type")
	runCmd.Flags().IntVar(&samples, "samples", 10, "number of telemetry samples to send")
	runCmd.Flags().DurationVar(&interval, "interval", time.Duration(cfg.Telemetry.RefreshRateSeconds)*time.Second, "delay between samples")
	runCmd.Flags().StringVar(&command, "task", "Write a Go function that reverses a string", "command text to submit, empty to skip")
	runCmd.Flags().StringVar(&taskType, "task-type", "code_generation", "task type")

	root.AddCommand(tokenCmd, runCmd)
	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
