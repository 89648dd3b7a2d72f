// CLI tool to create a user with bcrypt-hashed password and a nutrition profile.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-go-api/internal/config"
	"lg/nutrition-go-api/internal/nutrition"
)

// profileInput is what the prompts collect for user_profiles.
type profileInput struct {
	Sex           nutrition.Sex
	Age           int
	HeightCM      float64
	WeightKG      float64
	ActivityLevel nutrition.ActivityLevel
	Goal          nutrition.Goal
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	username := prompt(reader, os.Stdout, "Username: ")
	email := prompt(reader, os.Stdout, "Email: ")
	password := prompt(reader, os.Stdout, "Password: ")
	if len(username) < 3 || len(password) < 4 {
		fmt.Fprintln(os.Stderr, "Username needs at least 3 characters and password at least 4")
		os.Exit(1)
	}

	profile, err := readProfile(reader, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id, sex, age, height_cm, weight_kg, activity_level, goal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, string(profile.Sex), profile.Age, profile.HeightCM, profile.WeightKG,
		string(profile.ActivityLevel), string(profile.Goal))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	est := nutrition.Estimate(nutrition.Profile{
		Sex:           profile.Sex,
		Age:           profile.Age,
		HeightCM:      profile.HeightCM,
		WeightKG:      profile.WeightKG,
		ActivityLevel: profile.ActivityLevel,
	})

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
	fmt.Printf("  BMR / TEE:  %.0f / %.0f kcal\n", est.BMR, est.TEE)
}

func prompt(r *bufio.Reader, w io.Writer, label string) string {
	fmt.Fprint(w, label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// readProfile prompts for each profile field and validates it.
func readProfile(r *bufio.Reader, w io.Writer) (profileInput, error) {
	var p profileInput

	sex := strings.ToLower(prompt(r, w, "Sex (male/female): "))
	if sex != string(nutrition.Male) && sex != string(nutrition.Female) {
		return p, fmt.Errorf("sex must be male or female, got %q", sex)
	}
	p.Sex = nutrition.Sex(sex)

	age, err := strconv.Atoi(prompt(r, w, "Age: "))
	if err != nil || age < 0 || age > 130 {
		return p, fmt.Errorf("age must be a whole number between 0 and 130")
	}
	p.Age = age

	if p.HeightCM, err = positiveFloat(prompt(r, w, "Height (cm): ")); err != nil {
		return p, fmt.Errorf("height: %w", err)
	}
	if p.WeightKG, err = positiveFloat(prompt(r, w, "Weight (kg): ")); err != nil {
		return p, fmt.Errorf("weight: %w", err)
	}

	level := prompt(r, w, "Activity level (inactive/low_active/active/very_active): ")
	p.ActivityLevel = nutrition.ParseActivityLevel(level)

	if p.Goal, err = nutrition.ParseGoal(prompt(r, w, "Goal (muscle_gain/fat_loss): ")); err != nil {
		return p, err
	}
	return p, nil
}

func positiveFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v > 0) {
		return 0, fmt.Errorf("must be a positive number, got %q", s)
	}
	return v, nil
}
