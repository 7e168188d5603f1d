package user

import (
	"time"

	common_api "team-crm/internal/common/api"
	"team-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

type CreateUserRequest struct {
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Password2  string     `json:"password2"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Role       string     `json:"role,omitempty"`
	Department string     `json:"department,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	DOB        *time.Time `json:"dob,omitempty"`
	DOJ        *time.Time `json:"doj,omitempty"`
	Age        int        `json:"age,omitempty"`
}

type UpdateUserRequest struct {
	Username   *string    `json:"username,omitempty"`
	Email      *string    `json:"email,omitempty"`
	FirstName  *string    `json:"first_name,omitempty"`
	LastName   *string    `json:"last_name,omitempty"`
	Role       *string    `json:"role,omitempty"`
	Department *string    `json:"department,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Address    *string    `json:"address,omitempty"`
	DOB        *time.Time `json:"dob,omitempty"`
	DOJ        *time.Time `json:"doj,omitempty"`
	Age        *int       `json:"age,omitempty"`
	Active     *bool      `json:"active,omitempty"`
}

// ListUsers godoc
// @Summary      List users
// @Description  Privileged actors get everyone; everyone else gets themselves
// @Tags         users
// @Produce      json
// @Success      200  {object} map[string]interface{}
// @Router       /api/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.UserService.ListUsers(c.Context(), middleware.Actor(c))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "total": len(users)})
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object} models.User
// @Router       /api/users/{id} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	user, err := ctrl.UserService.GetUserByID(c.Context(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(user)
}

// CreateUser godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserRequest true "Create User Input"
// @Success      201  {object} models.User
// @Router       /api/users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := ctrl.UserService.CreateUser(c.Context(), middleware.Actor(c), CreateUserInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Password2:  req.Password2,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
		Address:    req.Address,
		DOB:        req.DOB,
		DOJ:        req.DOJ,
		Age:        req.Age,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser godoc
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        input body UpdateUserRequest true "Update User Input"
// @Success      200  {object} models.User
// @Router       /api/users/{id} [put]
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := ctrl.UserService.UpdateUser(c.Context(), middleware.Actor(c), c.Params("id"), UpdateUserInput{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
		Address:    req.Address,
		DOB:        req.DOB,
		DOJ:        req.DOJ,
		Age:        req.Age,
		Active:     req.Active,
	})
	if err != nil {
		return common_api.Error(c, err)
	}
	return c.JSON(user)
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Router       /api/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	if err := ctrl.UserService.DeleteUser(c.Context(), middleware.Actor(c), c.Params("id")); err != nil {
		return common_api.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
