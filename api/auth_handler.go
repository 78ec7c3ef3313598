package api

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/raushankrgupta/stylemate-backend/models"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

const authDBTimeout = 10 * time.Second

// SignupRequest represents the payload for user registration
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest represents the payload for verifying OTP
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ForgotPasswordRequest represents the payload for forgot password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the payload for resetting password
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// SignupHandler registers a user and emails a verification OTP.
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Signup API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logBuilder, "Name, Email and Password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authDBTimeout)
	defer cancel()

	if _, err := h.findUserByEmail(ctx, req.Email); err == nil {
		utils.RespondError(w, &logBuilder, "User with this email already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Database error checking user: %v", err))
		utils.RespondError(w, nil, "Database error checking user", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		utils.RespondError(w, &logBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}

	newUser := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Gender:    req.Gender,
		Status:    "pending",
		OTP:       otp,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := h.Users.InsertOne(ctx, newUser); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to create user: %v", err))
		utils.RespondError(w, nil, "Failed to create user", http.StatusInternalServerError)
		return
	}

	if err := utils.SendEmail(req.Name, req.Email, "Verify your email",
		fmt.Sprintf("Your OTP is: %s", otp),
		fmt.Sprintf("<h1>Your OTP is: <strong>%s</strong></h1>", otp)); err != nil {
		// User exists but the mail failed; the client can ask for a resend.
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to send OTP email: %v", err))
	}

	utils.AddToLogMessage(&logBuilder, "User registered, OTP sent")
	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully. Please verify your email using the OTP sent.",
	})
}

// VerifyOTPHandler confirms the emailed OTP and marks the account verified.
func (h *Handler) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Verify OTP API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" {
		utils.RespondError(w, &logBuilder, "Email and OTP are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authDBTimeout)
	defer cancel()

	user, err := h.findUserByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, &logBuilder, "User not found", http.StatusNotFound)
		return
	}
	if user.OTP != req.OTP {
		utils.RespondError(w, &logBuilder, "Invalid OTP", http.StatusUnauthorized)
		return
	}

	if user.Status == "verified" || user.Status == "active" {
		// OTP match on an already-verified account is the password-reset
		// flow; the OTP stays set until ResetPasswordHandler consumes it.
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "OTP verified successfully. Please proceed to reset password.",
		})
		return
	}

	update := bson.M{
		"$set":   bson.M{"status": "verified"},
		"$unset": bson.M{"otp": ""},
	}
	if _, err := h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to update user status: %v", err))
		utils.RespondError(w, nil, "Failed to update user status", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Email verification successful! You can now login.",
	})
}

// LoginHandler checks credentials and issues a JWT.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Login API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logBuilder, "Email and Password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authDBTimeout)
	defer cancel()

	user, err := h.findUserByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, &logBuilder, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, &logBuilder, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if user.Status == "pending" {
		utils.RespondError(w, &logBuilder, "Please verify your email first", http.StatusForbidden)
		return
	}

	if user.Status == "verified" {
		if _, err := h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"status": "active"}}); err == nil {
			user.Status = "active"
		}
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, nil, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// ForgotPasswordHandler emails a password-reset OTP.
func (h *Handler) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Forgot Password API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.RespondError(w, &logBuilder, "Email is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authDBTimeout)
	defer cancel()

	user, err := h.findUserByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, &logBuilder, "User not found", http.StatusNotFound)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		utils.RespondError(w, &logBuilder, "Failed to generate OTP", http.StatusInternalServerError)
		return
	}

	if _, err := h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"otp": otp}}); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to update user OTP: %v", err))
		utils.RespondError(w, nil, "Failed to update user", http.StatusInternalServerError)
		return
	}

	if err := utils.SendEmail(user.Name, req.Email, "Reset Password OTP",
		fmt.Sprintf("Your OTP for password reset is: %s", otp),
		fmt.Sprintf("<h1>Your OTP for password reset is: <strong>%s</strong></h1>", otp)); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to send email: %v", err))
		utils.RespondError(w, nil, "Failed to send email", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email."})
}

// ResetPasswordHandler sets a new password after OTP verification.
func (h *Handler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var logBuilder strings.Builder
	defer utils.FlushLogMessage(&logBuilder)
	utils.AddToLogMessage(&logBuilder, "[Reset Password API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		utils.RespondError(w, &logBuilder, "Email, OTP and New Password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authDBTimeout)
	defer cancel()

	user, err := h.findUserByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, &logBuilder, "User not found", http.StatusNotFound)
		return
	}
	if user.OTP != req.OTP {
		utils.RespondError(w, &logBuilder, "Invalid OTP", http.StatusUnauthorized)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	update := bson.M{
		"$set":   bson.M{"password": string(hashedPassword)},
		"$unset": bson.M{"otp": ""},
	}
	if _, err := h.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		utils.AddToLogMessage(&logBuilder, fmt.Sprintf("Failed to update password: %v", err))
		utils.RespondError(w, nil, "Failed to update password", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully. Please login with your new password.",
	})
}

func (h *Handler) findUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := h.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, err
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
