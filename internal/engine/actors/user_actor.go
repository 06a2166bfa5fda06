package actors

import (
	stdctx "context"
	"log"
	"time"

	"club-pulse/internal/database"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for user operations
type (
	RegisterUserMsg struct {
		Name         string `json:"name"`
		PhoneNumber  string `json:"phoneNumber"`
		Password     string `json:"password"`
		SelectedClub string `json:"selectedClub"`
	}

	LoginMsg struct {
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	UpdateSelectedClubMsg struct {
		UserID       uuid.UUID `json:"userId"`
		SelectedClub string    `json:"selectedClub"`
	}
)

// UserActor owns the identity records. Handlers mint the JWT after a
// successful login response; the actor only verifies credentials.
type UserActor struct {
	users   map[uuid.UUID]*models.User
	db      database.Store
	metrics *utils.MetricsCollector
}

func NewUserActor(db database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &UserActor{
		users:   make(map[uuid.UUID]*models.User),
		db:      db,
		metrics: metrics,
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserActor started with PID: %v", context.Self())

	case *RegisterUserMsg:
		a.handleRegister(context, msg)

	case *LoginMsg:
		a.handleLogin(context, msg)

	case *GetUserProfileMsg:
		a.handleGetProfile(context, msg)

	case *UpdateSelectedClubMsg:
		a.handleUpdateSelectedClub(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.users))

	default:
		log.Printf("UserActor: Unknown message type %T", msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()

	if msg.Name == "" || msg.PhoneNumber == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "name, phoneNumber and password are required", nil))
		return
	}

	ctx := stdctx.Background()
	if existing, err := a.db.GetUserByPhoneNumber(ctx, msg.PhoneNumber); err == nil && existing != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "phone number already registered", nil))
		return
	}

	hashedPassword, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Name:           msg.Name,
		PhoneNumber:    msg.PhoneNumber,
		HashedPassword: hashedPassword,
		SelectedClub:   msg.SelectedClub,
		CreatedAt:      time.Now(),
		LastActive:     time.Now(),
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		log.Printf("Failed to save user: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
		return
	}

	a.users[user.ID] = user
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	log.Printf("Successfully registered user %s", user.ID)
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()
	log.Printf("Processing login request for phone number: %s", msg.PhoneNumber)

	ctx := stdctx.Background()
	user, err := a.db.GetUserByPhoneNumber(ctx, msg.PhoneNumber)
	if err != nil {
		log.Printf("Login failed - user lookup error: %v", err)
		context.Respond(&models.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		log.Printf("Login failed - password comparison error: %v", err)
		context.Respond(&models.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	if err := a.db.UpdateUserActivity(ctx, user.ID); err != nil {
		log.Printf("Warning: failed to update user activity: %v", err)
	}

	a.users[user.ID] = user
	a.metrics.AddOperationLatency("login", time.Since(startTime))
	log.Printf("Login successful for user: %s", user.Name)

	// The handler layer mints the JWT from UserID.
	context.Respond(&models.LoginResponse{
		Success: true,
		UserID:  user.ID.String(),
		Name:    user.Name,
	})
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetUserProfileMsg) {
	if user, ok := a.users[msg.UserID]; ok {
		context.Respond(user)
		return
	}

	ctx := stdctx.Background()
	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.users[user.ID] = user
	context.Respond(user)
}

func (a *UserActor) handleUpdateSelectedClub(context actor.Context, msg *UpdateSelectedClubMsg) {
	ctx := stdctx.Background()
	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	user.SelectedClub = msg.SelectedClub
	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
		return
	}

	a.users[user.ID] = user
	context.Respond(user)
}
