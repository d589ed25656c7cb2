// Package options defines the flag sets shared by babywords commands.
package options

import (
	"time"

	"github.com/spf13/cobra"

	"babywords/internal/models"
)

// LoginOptions selects how to sign in
type LoginOptions struct {
	Email    string
	Password string
	Name     string
	Provider string
	Register bool
}

// AddLoginArgs wires sign-in flags
func AddLoginArgs(cmd *cobra.Command, o *LoginOptions) {
	cmd.Flags().StringVar(&o.Email, "email", "", "Account email.")
	cmd.Flags().StringVar(&o.Password, "password", "",
		"Account password. Read from stdin when omitted.")
	cmd.Flags().StringVar(&o.Provider, "provider", "",
		"Sign in through an OAuth provider (google, facebook, apple) in the browser.")
	cmd.Flags().BoolVar(&o.Register, "register", false, "Create the account first.")
	cmd.Flags().StringVar(&o.Name, "name", "", "Display name for --register.")
}

// BabyOptions holds profile fields
type BabyOptions struct {
	Name  string
	Photo string
}

// AddBabyArgs wires profile flags
func AddBabyArgs(cmd *cobra.Command, o *BabyOptions) {
	cmd.Flags().StringVar(&o.Name, "name", "", "Baby's name.")
	cmd.Flags().StringVar(&o.Photo, "photo", "", "Photo URL.")
}

// WordAddOptions holds the optional fields of a new word
type WordAddOptions struct {
	Date     string
	Category string
}

// AddWordAddArgs wires new word flags. The date defaults to today.
func AddWordAddArgs(cmd *cobra.Command, o *WordAddOptions) {
	cmd.Flags().StringVarP(&o.Date, "date", "d", time.Now().Format(models.DateLayout),
		"Date the word was spoken (YYYY-MM-DD).")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Category, see `babywords categories`.")
}

// WordListOptions filters and sorts the report
type WordListOptions struct {
	Category string
	Asc      bool
}

// AddWordListArgs wires report flags
func AddWordListArgs(cmd *cobra.Command, o *WordListOptions) {
	cmd.Flags().StringVarP(&o.Category, "category", "c", "all",
		"Only show words in this category.")
	cmd.Flags().BoolVar(&o.Asc, "asc", false, "Oldest words first.")
}

// StatsOptions selects the dashboard window
type StatsOptions struct {
	Start    string
	End      string
	Category string
}

// AddStatsArgs wires dashboard flags. An empty window means the last 30 days.
func AddStatsArgs(cmd *cobra.Command, o *StatsOptions) {
	cmd.Flags().StringVar(&o.Start, "start", "", "First day of the window (YYYY-MM-DD).")
	cmd.Flags().StringVar(&o.End, "end", "", "Last day of the window (YYYY-MM-DD).")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Only count words in this category.")
}
