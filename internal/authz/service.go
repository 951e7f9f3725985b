package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	groupPrefix     = "group:"
	groupAnchor     = "group:__anchor__"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin 授权服务
// 统一封装用户组加载、授权判定与组成员管理逻辑
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceUser 按用户 ID 判定授权
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	return s.Enforce(SubjectForUser(userID), obj, act)
}

// EnsureGroup 确保用户组存在
func (s *Service) EnsureGroup(group string) (string, error) {
	normalized, err := NormalizeGroup(group)
	if err != nil {
		return "", err
	}
	if s == nil || s.enforcer == nil {
		return "", fmt.Errorf("authz service unavailable")
	}
	if normalized == groupAnchor {
		return "", fmt.Errorf("reserved group is not allowed")
	}

	exists, err := s.enforcer.HasNamedGroupingPolicy("g", normalized, groupAnchor)
	if err != nil {
		return "", fmt.Errorf("check group failed: %w", err)
	}
	if exists {
		return normalized, nil
	}

	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, groupAnchor); err != nil {
		return "", fmt.Errorf("create group failed: %w", err)
	}
	return normalized, nil
}

// ListGroups 列出用户组
func (s *Service) ListGroups() ([]string, error) {
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list groups failed: %w", err)
	}
	groupSet := make(map[string]struct{})
	for _, rule := range rules {
		if len(rule) >= 1 {
			if strings.HasPrefix(rule[0], groupPrefix) && rule[0] != groupAnchor {
				groupSet[rule[0]] = struct{}{}
			}
		}
		if len(rule) >= 2 {
			if strings.HasPrefix(rule[1], groupPrefix) && rule[1] != groupAnchor {
				groupSet[rule[1]] = struct{}{}
			}
		}
	}
	groups := make([]string, 0, len(groupSet))
	for group := range groupSet {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups, nil
}

// GrantGroupPolicy 为用户组授予策略
func (s *Service) GrantGroupPolicy(group, object, action string) error {
	normalizedGroup, err := s.EnsureGroup(group)
	if err != nil {
		return err
	}
	normalizedObject := NormalizeObject(object)
	normalizedAction := NormalizeAction(action)
	if normalizedAction == "" {
		return fmt.Errorf("action is required")
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	if _, err := s.enforcer.AddPolicy(normalizedGroup, normalizedObject, normalizedAction); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// GetGroupPolicies 查询用户组策略
func (s *Service) GetGroupPolicies(group string) ([]Policy, error) {
	normalizedGroup, err := NormalizeGroup(group)
	if err != nil {
		return nil, err
	}
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}

	rules, err := s.enforcer.GetFilteredPolicy(0, normalizedGroup)
	if err != nil {
		return nil, fmt.Errorf("get group policies failed: %w", err)
	}
	return convertPolicies(rules), nil
}

// AssignUserGroup 将用户加入用户组
func (s *Service) AssignUserGroup(userID uint, group string) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	normalizedGroup, err := s.EnsureGroup(group)
	if err != nil {
		return err
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", SubjectForUser(userID), normalizedGroup); err != nil {
		return fmt.Errorf("assign user group failed: %w", err)
	}
	return nil
}

// RemoveUserGroup 将用户移出用户组
func (s *Service) RemoveUserGroup(userID uint, group string) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	normalizedGroup, err := NormalizeGroup(group)
	if err != nil {
		return err
	}
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	if _, err := s.enforcer.RemoveNamedGroupingPolicy("g", SubjectForUser(userID), normalizedGroup); err != nil {
		return fmt.Errorf("remove user group failed: %w", err)
	}
	return nil
}

// UserGroups 查询用户所属用户组
func (s *Service) UserGroups(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	groups, err := s.enforcer.GetRolesForUser(SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get user groups failed: %w", err)
	}
	filtered := make([]string, 0, len(groups))
	for _, group := range groups {
		if !strings.HasPrefix(group, groupPrefix) || group == groupAnchor {
			continue
		}
		filtered = append(filtered, group)
	}
	sort.Strings(filtered)
	return filtered, nil
}

func convertPolicies(rules [][]string) []Policy {
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return policies
}

// SubjectForUser 生成用户主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// NormalizeGroup 统一用户组名称
func NormalizeGroup(group string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(group))
	if normalized == "" {
		return "", fmt.Errorf("group is required")
	}
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if !strings.HasPrefix(normalized, groupPrefix) {
		normalized = groupPrefix + normalized
	}
	if len(normalized) <= len(groupPrefix) {
		return "", fmt.Errorf("group is required")
	}
	return normalized, nil
}

// NormalizeObject 统一授权资源
func NormalizeObject(object string) string {
	return strings.ToLower(strings.TrimSpace(object))
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
