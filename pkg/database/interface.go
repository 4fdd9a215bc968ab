package database

import (
	"fmt"

	"corporate-backend-refactor/pkg/models"
)

// DatabaseInterface 定义领域存储访问接口
// Lookup misses return apperr.NotFound; constraint rejections return
// apperr.StorageIntegrity. Operations that change structural membership
// (employee create/delete/transfer, office create/delete) adjust the
// denormalized counters inside the same transaction as the row change.
type DatabaseInterface interface {
	// Identities
	CreateIdentity(identity *models.Identity) error
	GetIdentityByID(id string) (*models.Identity, error)
	GetIdentityByUsername(username string) (*models.Identity, error)
	ListIdentities() ([]models.Identity, error)
	UpdateIdentity(identity *models.Identity) error
	DeleteIdentity(id string) error

	// Corporations
	CreateCorporation(corp *models.Corporation) error
	GetCorporation(id string) (*models.Corporation, error)
	ListCorporations() ([]models.Corporation, error)
	UpdateCorporation(corp *models.Corporation) error
	DeleteCorporation(id string) error

	// Addresses
	CreateAddress(addr *models.Address) error
	GetAddress(id string) (*models.Address, error)
	ListAddresses() ([]models.Address, error)
	UpdateAddress(addr *models.Address) error
	DeleteAddress(id string) error

	// Offices（复合键）
	CreateOffice(office *models.Office) error
	GetOffice(key models.OfficeKey) (*models.Office, error)
	ListOffices() ([]models.Office, error)
	ListOfficesByCorporation(corporationID string) ([]models.Office, error)
	DeleteOffice(key models.OfficeKey) error

	// Departments
	CreateDepartment(dept *models.Department) error
	GetDepartment(id string) (*models.Department, error)
	ListDepartments() ([]models.Department, error)
	ListDepartmentsByCorporation(corporationID string) ([]models.Department, error)
	UpdateDepartment(dept *models.Department) error
	DeleteDepartment(id string) error
	// SetDepartmentOffices replaces the join relation in one atomic write.
	SetDepartmentOffices(departmentID string, keys []models.OfficeKey) error

	// Positions
	CreatePosition(pos *models.Position) error
	GetPosition(id string) (*models.Position, error)
	ListPositions() ([]models.Position, error)
	ListPositionsByDepartment(departmentID string) ([]models.Position, error)
	ListPositionsByCorporation(corporationID string) ([]models.Position, error)
	UpdatePosition(pos *models.Position) error
	DeletePosition(id string) error

	// Employees
	CreateEmployee(emp *models.Employee) error
	GetEmployee(id string) (*models.Employee, error)
	GetEmployeeByIdentity(identityID string) (*models.Employee, error)
	ListEmployees() ([]models.Employee, error)
	ListEmployeesByOffice(key models.OfficeKey) ([]models.Employee, error)
	ListEmployeesByCorporation(corporationID string) ([]models.Employee, error)
	// UpdateEmployee updates own fields only; office membership changes go
	// through TransferEmployee so the counters stay consistent.
	UpdateEmployee(emp *models.Employee) error
	DeleteEmployee(id string) error
	TransferEmployee(id string, to models.OfficeKey) error

	// 健康检查
	HealthCheck() error

	// 关闭连接
	Close() error
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	UseLocalDB  bool
	PostgresDSN string
	Debug       bool
}

// NewDatabase 根据配置选择数据库实现
func NewDatabase(config DatabaseConfig) DatabaseInterface {
	if config.PostgresDSN != "" && !config.UseLocalDB {
		fmt.Printf("🗄️  Using PostgreSQL database\n")
		return NewPostgresDatabase(config.PostgresDSN)
	}

	fmt.Printf("💾 Using in-memory database (development/testing only)\n")
	return NewLocalDatabase()
}
