package model

import "fmt"

// DiffWindows compares two snapshots of the same window and returns the
// changed fields as [old, new] pairs. Returns nil when nothing differs.
func DiffWindows(prev, curr Window) map[string][2]string {
	diffs := make(map[string][2]string)

	if !equalString(prev.Title, curr.Title) {
		diffs["title"] = [2]string{optString(prev.Title), optString(curr.Title)}
	}
	if !equalString(prev.AppID, curr.AppID) {
		diffs["app_id"] = [2]string{optString(prev.AppID), optString(curr.AppID)}
	}
	if !equalUint(prev.WorkspaceID, curr.WorkspaceID) {
		diffs["workspace_id"] = [2]string{optUint(prev.WorkspaceID), optUint(curr.WorkspaceID)}
	}
	if prev.Focused != curr.Focused {
		diffs["focused"] = [2]string{
			fmt.Sprintf("%v", prev.Focused),
			fmt.Sprintf("%v", curr.Focused),
		}
	}
	if prev.Floating != curr.Floating {
		diffs["floating"] = [2]string{
			fmt.Sprintf("%v", prev.Floating),
			fmt.Sprintf("%v", curr.Floating),
		}
	}
	if prev.Urgent != curr.Urgent {
		diffs["urgent"] = [2]string{
			fmt.Sprintf("%v", prev.Urgent),
			fmt.Sprintf("%v", curr.Urgent),
		}
	}
	if prev.X != curr.X {
		diffs["x"] = [2]string{
			fmt.Sprintf("%d", prev.X),
			fmt.Sprintf("%d", curr.X),
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func optString(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}

func optUint(v *uint64) string {
	if v == nil {
		return "<none>"
	}
	return fmt.Sprintf("%d", *v)
}
