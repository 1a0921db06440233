package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role 账号角色，仅允许 RoleMember / RoleAdministrator
type Role uint8

const (
	roleUnknown Role = iota
	// RoleMember 普通会员
	RoleMember
	// RoleAdministrator 管理员
	RoleAdministrator
)

const (
	roleMemberName        = "member"
	roleAdministratorName = "administrator"
)

// ParseRole 解析角色字符串
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case roleMemberName:
		return RoleMember, nil
	case roleAdministratorName:
		return RoleAdministrator, nil
	default:
		return roleUnknown, fmt.Errorf("unknown role %q", raw)
	}
}

// String 返回角色的存储值
func (r Role) String() string {
	switch r {
	case RoleMember:
		return roleMemberName
	case RoleAdministrator:
		return roleAdministratorName
	default:
		return ""
	}
}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdministrator
}

// IsAdministrator 是否管理员
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}

// Value 写库
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role value %d", r)
	}
	return r.String(), nil
}

// Scan 读库，非法值直接报错
func (r *Role) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported role column type %T", value)
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON 输出角色字符串
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON 解析角色字符串
func (r *Role) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
