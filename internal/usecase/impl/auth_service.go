package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "rentalhub/internal/delivery/context"
	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/domain/validation"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"go.uber.org/fx"
)

const defaultOAuthName = "User"

// passwordPolicy carries the rule applied to every password the user chooses.
type passwordPolicy struct {
	Password string `json:"password" validate:"required,min=6,max=128,containsany=0123456789"`
}

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Logger            *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a password account. Admins cannot be self-registered.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(passwordPolicy{Password: input.Password}); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if input.Role == entity.RoleOwner {
		role = entity.RoleOwner
	}

	user := entity.NewUser(input.Email, input.Name, role)
	if input.PhoneNumber != nil {
		if phone := strings.TrimSpace(*input.PhoneNumber); phone != "" {
			user.PhoneNumber = &phone
		}
	}
	if err := validation.Struct(user); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if _, err := userRepo.FindByEmail(ctx, user.Email); err == nil {
			return domainerrors.ErrDuplicateKey.WithMessage("User with this email already exists")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email")
		}

		if user.PhoneNumber != nil {
			if _, err := userRepo.FindByPhoneNumber(ctx, *user.PhoneNumber); err == nil {
				return domainerrors.ErrDuplicateKey.WithMessage("Phone number is already registered")
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to check phone number")
			}
		}

		hash, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}
		user.PasswordHash = hash

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", user.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.String("userID", user.ID.String()), slog.String("role", user.Role.String()))

	return srv.issueTokens(user)
}

// Login authenticates with email and password.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	if err := srv.checkPassword(user, input.Password, domainerrors.ErrInvalidCredentials,
		"Please login with Google or set a password"); err != nil {
		srv.log(ctx).Info("Login rejected", slog.String("userID", user.ID.String()), slog.Any("reason", err))

		return nil, err
	}

	return srv.issueTokens(user)
}

// LoginWithPhone authenticates with a registered phone number and password.
func (srv *authService) LoginWithPhone(ctx context.Context, input *usecase.PhoneLoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByPhoneNumber(ctx, strings.TrimSpace(input.PhoneNumber))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidCredentials.WithMessage("No account found with this phone number")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	if err := srv.checkPassword(user, input.Password,
		domainerrors.ErrInvalidCredentials.WithMessage("Invalid phone number or password"),
		"Please set a password first"); err != nil {
		return nil, err
	}

	return srv.issueTokens(user)
}

// checkPassword applies the login checks in order: active, has password, password matches.
func (srv *authService) checkPassword(user *entity.User, password string, mismatch error, noPassword string) error {
	if !user.IsActive {
		return domainerrors.ErrAccountDeactivated
	}
	if !user.HasPassword() {
		return domainerrors.ErrInvalidCredentials.WithMessage(noPassword)
	}
	if !srv.hasher.Check(password, user.PasswordHash) {
		return mismatch
	}

	return nil
}

// LoginWithGoogle verifies the ID token and links it by Google ID, then by email, or creates the account.
func (srv *authService) LoginWithGoogle(ctx context.Context, input *usecase.GoogleLoginInput) (*usecase.AuthOutput, error) {
	if strings.TrimSpace(input.IDToken) == "" {
		return nil, validation.Fail("idToken", "idToken is required")
	}

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrUnauthenticated.WithMessage("Invalid Google token")
	}
	if oauthUser.Email == "" {
		return nil, domainerrors.ErrUnauthenticated.WithMessage("Google account has no email")
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var txErr error
		user, txErr = srv.findOrLinkGoogleUser(ctx, repoFactory.NewUserRepository(), oauthUser)

		return txErr
	})
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountDeactivated
	}

	return srv.issueTokens(user)
}

func (srv *authService) findOrLinkGoogleUser(
	ctx context.Context,
	userRepo repository.UserRepository,
	oauthUser *service.OAuthUser,
) (*entity.User, error) {
	user, err := userRepo.FindByGoogleID(ctx, oauthUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by google id")
	}

	googleID := oauthUser.ID
	user, err = userRepo.FindByEmail(ctx, entity.NormalizeEmail(oauthUser.Email))
	switch {
	case err == nil:
		user.GoogleID = &googleID
		if (user.PhotoURL == nil || *user.PhotoURL == "") && oauthUser.AvatarURL != "" {
			photo := oauthUser.AvatarURL
			user.PhotoURL = &photo
		}
		if err := userRepo.Update(ctx, user); err != nil {
			return nil, errors.Wrap(err, "failed to link google account")
		}
		srv.log(ctx).Info("Linked Google account", slog.String("userID", user.ID.String()))

		return user, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	name := strings.TrimSpace(oauthUser.Name)
	if len([]rune(name)) < 2 {
		name = defaultOAuthName
	}
	user = entity.NewUser(oauthUser.Email, name, entity.RoleUser)
	user.GoogleID = &googleID
	if oauthUser.AvatarURL != "" {
		photo := oauthUser.AvatarURL
		user.PhotoURL = &photo
	}
	if err := validation.Struct(user); err != nil {
		return nil, err
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create google user")
	}
	srv.log(ctx).Info("User registered with Google", slog.String("userID", user.ID.String()))

	return user, nil
}

// RefreshToken exchanges a valid refresh token for a new pair.
func (srv *authService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WithMessage("Invalid refresh token")
	}

	user, err := srv.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	return srv.issueTokens(user)
}

// Authenticate resolves an access token to its active user.
func (srv *authService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := srv.tokenService.ValidateToken(accessToken, service.TokenTypeAccess)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WithMessage("Invalid or expired token")
	}

	return srv.activeUser(ctx, claims)
}

func (srv *authService) activeUser(ctx context.Context, claims *service.Claims) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUnauthenticated.WithMessage("User not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if !user.IsActive {
		return nil, domainerrors.ErrAccountDeactivated
	}

	return user, nil
}

func (srv *authService) GetMe(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
	}

	return user, nil
}

// SetPassword sets the first password of an account created through Google.
func (srv *authService) SetPassword(ctx context.Context, actor entity.Actor, password string) (*usecase.AuthOutput, error) {
	return srv.replacePassword(ctx, actor, func(user *entity.User) error {
		if user.HasPassword() {
			return domainerrors.BadRequest("Password is already set. Use change password instead")
		}

		return nil
	}, password)
}

// ChangePassword replaces the password, checking the current one when the account has one.
func (srv *authService) ChangePassword(ctx context.Context, actor entity.Actor, input *usecase.ChangePasswordInput) (*usecase.AuthOutput, error) {
	return srv.replacePassword(ctx, actor, func(user *entity.User) error {
		if user.HasPassword() && !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.BadRequest("Current password is incorrect")
		}

		return nil
	}, input.NewPassword)
}

func (srv *authService) replacePassword(
	ctx context.Context,
	actor entity.Actor,
	precondition func(*entity.User) error,
	password string,
) (*usecase.AuthOutput, error) {
	if err := validation.Struct(passwordPolicy{Password: password}); err != nil {
		return nil, err
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, actor.ID)
		if err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
		}
		if err := precondition(user); err != nil {
			return err
		}

		hash, err := srv.hasher.Hash(password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}
		user.PasswordHash = hash

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Password updated", slog.String("userID", user.ID.String()))

	return srv.issueTokens(user)
}

// UpdateProfile edits the caller's public profile.
func (srv *authService) UpdateProfile(ctx context.Context, actor entity.Actor, input *usecase.UpdateProfileInput) (*entity.User, error) {
	return srv.updateSelf(ctx, actor, func(user *entity.User) {
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = optionalString(*input.PhoneNumber)
		}
		if input.Bio != nil {
			user.Bio = strings.TrimSpace(*input.Bio)
		}
		switch {
		case input.RemovePhoto:
			user.PhotoURL = nil
		case input.PhotoURL != nil:
			user.PhotoURL = optionalString(*input.PhotoURL)
		}
	})
}

// UpdatePreferences edits the caller's UI preferences.
func (srv *authService) UpdatePreferences(ctx context.Context, actor entity.Actor, input *usecase.UpdatePreferencesInput) (*entity.User, error) {
	return srv.updateSelf(ctx, actor, func(user *entity.User) {
		if input.IsDarkMode != nil {
			user.IsDarkMode = *input.IsDarkMode
		}
		if input.Locale != nil {
			user.Locale = strings.TrimSpace(*input.Locale)
		}
	})
}

// UpdateFCMToken registers the caller's device for push. A nil or empty token clears it.
func (srv *authService) UpdateFCMToken(ctx context.Context, actor entity.Actor, token *string) error {
	_, err := srv.updateSelf(ctx, actor, func(user *entity.User) {
		if token == nil {
			user.FCMToken = nil

			return
		}
		user.FCMToken = optionalString(*token)
	})

	return err
}

// Logout forgets the caller's device. Tokens are stateless and simply expire.
func (srv *authService) Logout(ctx context.Context, actor entity.Actor) error {
	return srv.UpdateFCMToken(ctx, actor, nil)
}

func (srv *authService) updateSelf(ctx context.Context, actor entity.Actor, mutate func(*entity.User)) (*entity.User, error) {
	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, actor.ID)
		if err != nil {
			return notFound(err, repository.ErrUserNotFound, "User", "failed to find user")
		}

		mutate(user)
		if err := validation.Struct(user); err != nil {
			return err
		}

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (srv *authService) issueTokens(user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// optionalString trims s and maps the empty string to nil.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}
