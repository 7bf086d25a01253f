package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/activityportal/internal/config"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Verifier       *helpers.TokenVerifier
	Files          helpers.FileStore
	Reminders      models.ReminderRepo

	AccountService      *services.AccountService
	ActivityService     *services.ActivityService
	OrganizationService *services.OrganizationService
	ReminderService     *services.ReminderService
}

// NewContainer wires repositories and services. cld is only used when
// FILE_STORE is cloudinary and may be nil otherwise.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mdb := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	var files helpers.FileStore
	if cfg.FileStore == config.FileStoreCloudinary && cld != nil {
		files = helpers.NewCloudinaryFileStore(cld)
	} else {
		files = helpers.NewSupabaseFileStore(supabaseClient.Storage, cfg.StorageBucket)
	}

	return &Container{
		Config:              cfg,
		Logger:              logger,
		SupabaseClient:      supabaseClient,
		MongoDBClient:       mongoDBClient,
		Verifier:            helpers.NewTokenVerifier(cfg.SupabaseURL, cfg.SupabaseJWTSecret),
		Files:               files,
		Reminders:           mdb,
		AccountService:      services.NewAccountService(supa),
		ActivityService:     services.NewActivityService(supa, mdb, files, logger),
		OrganizationService: services.NewOrganizationService(supa, files),
		ReminderService:     services.NewReminderService(mdb),
	}
}

func (c *Container) Close() {
	c.Verifier.Close()
}
