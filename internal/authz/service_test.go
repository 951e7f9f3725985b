package authz

import (
	"fmt"
	"testing"

	"github.com/blognest/blognest/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:authz_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	service, err := NewService(db)
	if err != nil {
		t.Fatalf("init authz service failed: %v", err)
	}
	return service
}

func TestBootstrapGroupsMatrix(t *testing.T) {
	service := setupAuthzTest(t)
	service.BootstrapGroups()

	cases := []struct {
		group  string
		action string
		want   bool
	}{
		{constants.GroupReaders, constants.PermViewPost, true},
		{constants.GroupReaders, constants.PermAddPost, false},
		{constants.GroupReaders, constants.PermPublishPost, false},
		{constants.GroupAuthors, constants.PermAddPost, true},
		{constants.GroupAuthors, constants.PermChangePost, true},
		{constants.GroupAuthors, constants.PermDeletePost, true},
		{constants.GroupAuthors, constants.PermPublishPost, false},
		{constants.GroupEditors, constants.PermAddPost, true},
		{constants.GroupEditors, constants.PermChangePost, true},
		{constants.GroupEditors, constants.PermDeletePost, true},
		{constants.GroupEditors, constants.PermPublishPost, true},
	}

	for _, tc := range cases {
		normalized, err := NormalizeGroup(tc.group)
		if err != nil {
			t.Fatalf("normalize group %s failed: %v", tc.group, err)
		}
		allowed, err := service.Enforce(normalized, constants.ResourcePost, tc.action)
		if err != nil {
			t.Fatalf("enforce %s/%s failed: %v", tc.group, tc.action, err)
		}
		if allowed != tc.want {
			t.Fatalf("group=%s action=%s want %v got %v", tc.group, tc.action, tc.want, allowed)
		}
	}
}

func TestBootstrapGroupsIdempotent(t *testing.T) {
	service := setupAuthzTest(t)
	service.BootstrapGroups()
	service.BootstrapGroups()

	groups, err := service.ListGroups()
	if err != nil {
		t.Fatalf("list groups failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups want 3 got %d: %v", len(groups), groups)
	}

	policies, err := service.GetGroupPolicies(constants.GroupEditors)
	if err != nil {
		t.Fatalf("get editor policies failed: %v", err)
	}
	if len(policies) != 4 {
		t.Fatalf("editor policies want 4 got %d: %v", len(policies), policies)
	}
}

func TestAssignUserGroupGrantsPermissions(t *testing.T) {
	service := setupAuthzTest(t)
	service.BootstrapGroups()

	const userID = 42
	if err := service.AssignUserGroup(userID, constants.GroupReaders); err != nil {
		t.Fatalf("assign readers failed: %v", err)
	}

	allowed, err := service.HasPostPermission(userID, constants.PermViewPost)
	if err != nil {
		t.Fatalf("enforce view failed: %v", err)
	}
	if !allowed {
		t.Fatalf("reader should have view permission")
	}

	allowed, err = service.HasPostPermission(userID, constants.PermAddPost)
	if err != nil {
		t.Fatalf("enforce add failed: %v", err)
	}
	if allowed {
		t.Fatalf("reader should not have add permission")
	}

	groups, err := service.UserGroups(userID)
	if err != nil {
		t.Fatalf("user groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0] != "group:readers" {
		t.Fatalf("user groups want [group:readers] got %v", groups)
	}
}

func TestRemoveUserGroupRevokesPermissions(t *testing.T) {
	service := setupAuthzTest(t)
	service.BootstrapGroups()

	const userID = 7
	if err := service.AssignUserGroup(userID, constants.GroupEditors); err != nil {
		t.Fatalf("assign editors failed: %v", err)
	}
	if err := service.RemoveUserGroup(userID, constants.GroupEditors); err != nil {
		t.Fatalf("remove editors failed: %v", err)
	}

	allowed, err := service.HasPostPermission(userID, constants.PermPublishPost)
	if err != nil {
		t.Fatalf("enforce publish failed: %v", err)
	}
	if allowed {
		t.Fatalf("removed member should not keep publish permission")
	}
}
