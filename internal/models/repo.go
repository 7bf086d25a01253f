package models

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

var Validate = newValidator()

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("academic_year", func(fl validator.FieldLevel) bool {
		m := academicYearPattern.FindStringSubmatch(fl.Field().String())
		if m == nil {
			return false
		}
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		return end == start+1
	})
	return v
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	url            string
	key            string
}

func SupabaseNewRepo(supabaseClient *supabase.Client, url, key string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
	}
}

// GetAuthenticatedClient returns a Supabase client with the given access token
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if su.url == "" || su.key == "" {
		// without the project url and key we can only reuse the shared client
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

// client picks the per-request client so row level security sees the caller.
func (su *SupabaseRepo) client(accessToken string) (*supabase.Client, error) {
	if accessToken == "" {
		return su.supabaseClient, nil
	}
	return su.GetAuthenticatedClient(accessToken)
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}
