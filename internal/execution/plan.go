package execution

import (
	"fmt"
	"path/filepath"
	"strings"

	"rebatch/internal/metadata"
	"rebatch/internal/model"
)

// errPlanHasBlockingRows is returned by BuildPlan when rows contains
// any invalid or duplicate_of diagnosis, per spec §4.5's precondition.
var errPlanHasBlockingRows = model.Permanent(fmt.Errorf("preview has invalid or duplicate rows; resolve them before executing"))

// BuildPlan materializes the flat operation list for a batch: one
// RenameOperation per non-unchanged row (the "principal" operations),
// followed by one RenameOperation per discovered companion file,
// referencing its principal via PrincipalID — spec §4.5 steps 1-2.
func BuildPlan(descriptors []*model.FileDescriptor, rows []model.PreviewRow) ([]model.RenameOperation, error) {
	if len(descriptors) != len(rows) {
		return nil, model.Fatal(fmt.Errorf("descriptors/rows length mismatch: %d vs %d", len(descriptors), len(rows)))
	}

	var ops []model.RenameOperation

	for i, row := range rows {
		switch row.Diagnosis.Kind {
		case model.DiagInvalid, model.DiagDuplicateOf:
			return nil, errPlanHasBlockingRows
		case model.DiagUnchanged:
			continue
		}

		fd := descriptors[i]
		target := filepath.Join(fd.Dir(), row.ProposedName())
		principalIndex := len(ops)
		ops = append(ops, model.RenameOperation{
			SourcePath:  fd.AbsolutePath,
			TargetPath:  target,
			CaseOnly:    isCaseOnly(fd.AbsolutePath, target),
			IsCompanion: false,
			PrincipalID: -1,
			PlanIndex:   principalIndex,
		})

		companions, err := metadata.DiscoverCompanions(fd.AbsolutePath)
		if err != nil {
			continue // discovery failure degrades to "no companions", not a hard error
		}
		newBaseName := strings.TrimSuffix(filepath.Base(row.ProposedName()), "."+row.ProposedExtension)
		for _, companion := range companions {
			companionTarget := companionTargetPath(companion, newBaseName)
			ops = append(ops, model.RenameOperation{
				SourcePath:  companion.Path,
				TargetPath:  companionTarget,
				CaseOnly:    isCaseOnly(companion.Path, companionTarget),
				IsCompanion: true,
				PrincipalID: principalIndex,
				PlanIndex:   len(ops),
			})
		}
	}

	return ops, nil
}

// companionTargetPath applies the companion naming rule from spec §6:
// given principal OLD -> NEW, a companion at OLD<suffix>.<ext> becomes
// NEW<suffix>.<ext>.
func companionTargetPath(companion metadata.Companion, newBaseName string) string {
	dir := filepath.Dir(companion.Path)
	ext := filepath.Ext(companion.Path)
	return filepath.Join(dir, newBaseName+companion.Suffix+ext)
}

func isCaseOnly(source, target string) bool {
	return source != target && strings.EqualFold(source, target)
}

// groupByDirectory partitions ops by parent directory, recording each
// op's position in ops (not its PlanIndex) so callers can slice dirOps
// back out of ops. PrincipalID resolution relies on op.PlanIndex,
// carried on the struct itself, not on this grouping.
func groupByDirectory(ops []model.RenameOperation) map[string][]int {
	groups := make(map[string][]int)
	for i, op := range ops {
		dir := filepath.Dir(op.SourcePath)
		groups[dir] = append(groups[dir], i)
	}
	return groups
}
