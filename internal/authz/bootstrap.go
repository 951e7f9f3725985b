package authz

import (
	"fmt"

	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/logger"
)

// GroupSeed 预置用户组定义
type GroupSeed struct {
	Group    string
	Policies []Policy
}

// BuiltinGroupSeeds 系统预置用户组矩阵
func BuiltinGroupSeeds() []GroupSeed {
	return []GroupSeed{
		{
			Group: constants.GroupReaders,
			Policies: []Policy{
				{Object: constants.ResourcePost, Action: constants.PermViewPost},
			},
		},
		{
			Group: constants.GroupAuthors,
			Policies: []Policy{
				{Object: constants.ResourcePost, Action: constants.PermAddPost},
				{Object: constants.ResourcePost, Action: constants.PermChangePost},
				{Object: constants.ResourcePost, Action: constants.PermDeletePost},
			},
		},
		{
			Group: constants.GroupEditors,
			Policies: []Policy{
				{Object: constants.ResourcePost, Action: constants.PermAddPost},
				{Object: constants.ResourcePost, Action: constants.PermChangePost},
				{Object: constants.ResourcePost, Action: constants.PermDeletePost},
				{Object: constants.ResourcePost, Action: constants.PermPublishPost},
			},
		},
	}
}

// BootstrapGroups 初始化预置用户组与权限策略。
// 幂等：重复执行不会产生重复策略；单个组失败只记录日志，不阻断启动。
func (s *Service) BootstrapGroups() {
	if s == nil || s.enforcer == nil {
		logger.Errorw("authz_bootstrap_skipped", "reason", "service_unavailable")
		return
	}

	for _, seed := range BuiltinGroupSeeds() {
		if err := s.bootstrapGroup(seed); err != nil {
			logger.Errorw("authz_group_bootstrap_failed",
				"group", seed.Group,
				"error", err,
			)
			continue
		}
		logger.Debugw("authz_group_ready", "group", seed.Group)
	}
}

func (s *Service) bootstrapGroup(seed GroupSeed) error {
	group, err := s.EnsureGroup(seed.Group)
	if err != nil {
		return err
	}

	for _, policy := range seed.Policies {
		action := NormalizeAction(policy.Action)
		if action == "" {
			return fmt.Errorf("builtin policy action is required")
		}
		if _, err := s.enforcer.AddPolicy(group, NormalizeObject(policy.Object), action); err != nil {
			return fmt.Errorf("add builtin policy failed: %w", err)
		}
	}
	return nil
}

// HasPostPermission 判定用户是否具备文章权限动作
func (s *Service) HasPostPermission(userID uint, action string) (bool, error) {
	return s.EnforceUser(userID, constants.ResourcePost, action)
}
