package permissions

import "testing"

func TestAllDefinedKeysAreValid(t *testing.T) {
	keys := GetAllPermissionKeys()
	if len(keys) == 0 {
		t.Fatal("no permission keys defined")
	}
	for _, key := range keys {
		if !IsValidPermissionKey(key) {
			t.Errorf("key %q should be valid", key)
		}
	}
}

func TestLifecycleKeysAreRegistered(t *testing.T) {
	for _, key := range []string{RecordEdit, RecordDelete, RecordMerge, CurationPublish, PanelManage, PanelInvite} {
		if !IsValidPermissionKey(key) {
			t.Errorf("lifecycle key %q is not registered", key)
		}
	}
}

func TestUnknownKeyIsInvalid(t *testing.T) {
	if IsValidPermissionKey("record.doesnotexist") {
		t.Error("unknown key should be invalid")
	}
}
