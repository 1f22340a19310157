package parser

// location.go - ILOC/IALVL attachment resolution
//
// An image segment's ILOC is relative to the segment it is attached to
// (the one whose IDLVL equals its IALVL); IALVL=0 attaches to the origin of
// the common coordinate system. Multi-segment SICD products chain every
// segment to the one before it, so absolute placement needs the whole chain.

// resolveLocations sets Location on every segment by following attachment chains.
//
// Display levels must be unique and every non-zero attachment level must name
// an existing display level. Chains are followed with cycle detection.
func resolveLocations(segments []*ImageSegment) error {
	byLevel := make(map[int]*ImageSegment, len(segments))
	for _, seg := range segments {
		if other, ok := byLevel[seg.DisplayLevel]; ok {
			return &ErrSegment{Kind: "image", Index: seg.Index,
				Err: newFormatError(ErrInvalidField, "IDLVL",
					"display level %d already used by image segment %d", seg.DisplayLevel, other.Index)}
		}
		byLevel[seg.DisplayLevel] = seg
	}

	resolved := make(map[*ImageSegment]bool, len(segments))
	for _, seg := range segments {
		visiting := make(map[int]bool)
		if _, err := resolveLocation(seg, byLevel, resolved, visiting); err != nil {
			return &ErrSegment{Kind: "image", Index: seg.Index, Err: err}
		}
	}
	return nil
}

// resolveLocation walks the attachment chain of one segment.
func resolveLocation(seg *ImageSegment, byLevel map[int]*ImageSegment, resolved map[*ImageSegment]bool, visiting map[int]bool) (Location, error) {
	if resolved[seg] {
		return seg.Location, nil
	}
	if seg.AttachmentLevel == 0 {
		seg.Location = seg.RelativeLocation
		resolved[seg] = true
		return seg.Location, nil
	}

	// Check for circular attachment
	if visiting[seg.DisplayLevel] {
		return Location{}, newFormatError(ErrInvalidField, "IALVL",
			"attachment cycle through display level %d", seg.DisplayLevel)
	}
	visiting[seg.DisplayLevel] = true

	parent, ok := byLevel[seg.AttachmentLevel]
	if !ok {
		return Location{}, newFormatError(ErrInvalidField, "IALVL",
			"attached to display level %d, which no image segment has", seg.AttachmentLevel)
	}
	origin, err := resolveLocation(parent, byLevel, resolved, visiting)
	if err != nil {
		return Location{}, err
	}
	seg.Location = origin.Add(seg.RelativeLocation)
	resolved[seg] = true
	return seg.Location, nil
}
