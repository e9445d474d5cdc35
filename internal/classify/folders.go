package classify

import "strings"

// Folder classification root token and the type tag that triggers the
// narrower four-segment folder name.
const (
	folderRootToken     = "lc"
	resourceTemplateTag = "RT"

	maxGroupTagLen   = 20
	maxFourthPartLen = 30
)

// FolderFor maps a shapeID to a folder name, or "" when the id does not
// follow the ecosystem's id scheme (the shape stays unfoldered).
//
// Ids of the form lc:<type>:<group>[...] classify as "<type>_<group>";
// resource-template ids with a fourth segment narrow to
// "<type>_<group>_<fourth>". The heuristic is reproduced byte-for-byte
// from the source ecosystem: existing profiles depend on identical output.
func FolderFor(shapeID string) string {
	parts := strings.Split(shapeID, ":")
	if len(parts) < 3 || parts[0] != folderRootToken {
		return ""
	}

	typeTag := parts[1]
	group := parts[2]
	if typeTag == "" || group == "" {
		return ""
	}
	if len(group) > maxGroupTagLen || strings.Contains(group, " ") {
		return ""
	}

	name := typeTag + "_" + group

	if typeTag == resourceTemplateTag && len(parts) >= 4 {
		fourth := parts[3]
		if fourth != "" && len(fourth) <= maxFourthPartLen && !strings.Contains(fourth, " ") {
			name += "_" + fourth
		}
	}

	return name
}
