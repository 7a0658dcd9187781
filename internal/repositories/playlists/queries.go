package playlists

const playlistColumns = `
	id,
	owner_id,
	name,
	slug,
	description,
	logo_url,
	created_at,
	updated_at
`

const listPlaylistsQuery = `
	SELECT` + playlistColumns + `
	FROM playlist
	WHERE owner_id = $1
	ORDER BY created_at DESC, id DESC
`

const getPlaylistQuery = `
	SELECT` + playlistColumns + `
	FROM playlist
	WHERE owner_id = $1 AND id = $2
`

const allPlaylistsQuery = `
	SELECT` + playlistColumns + `
	FROM playlist
	ORDER BY owner_id, created_at DESC, id DESC
`

const lockPlaylistQuery = `
	SELECT id FROM playlist
	WHERE owner_id = $1 AND id = $2
	FOR UPDATE
`

const insertPlaylistQuery = `
	INSERT INTO playlist (id, owner_id, name, slug, description, logo_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const updatePlaylistQuery = `
	UPDATE playlist
	SET name = $3, slug = $4, description = $5, logo_url = $6, updated_at = NOW()
	WHERE owner_id = $1 AND id = $2
	RETURNING updated_at
`

const touchPlaylistQuery = `
	UPDATE playlist SET updated_at = NOW() WHERE id = $1
`

const deletePlaylistQuery = `
	DELETE FROM playlist WHERE owner_id = $1 AND id = $2
`

const reelColumns = `
	id,
	playlist_id,
	title,
	url,
	platform,
	content_id,
	author,
	thumbnail_url,
	position,
	created_at
`

const reelsQuery = `
	SELECT` + reelColumns + `
	FROM reel
	WHERE playlist_id = ANY($1)
	ORDER BY playlist_id, position
`

const insertReelQuery = `
	INSERT INTO reel (
		id,
		playlist_id,
		title,
		url,
		platform,
		content_id,
		author,
		thumbnail_url,
		position,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const nextPositionQuery = `
	SELECT COALESCE(MAX(position) + 1, 0) FROM reel WHERE playlist_id = $1
`

const deleteReelQuery = `
	DELETE FROM reel
	WHERE id = $1 AND playlist_id = $2
	RETURNING position
`

const closeGapQuery = `
	UPDATE reel
	SET position = position - 1
	WHERE playlist_id = $1 AND position > $2
`

const missingThumbnailsQuery = `
	SELECT` + reelColumns + `
	FROM reel
	WHERE platform = $1
	AND thumbnail_url IS NULL
	AND content_id IS NOT NULL
	ORDER BY created_at
	LIMIT $2
`

const updateReelMetadataQuery = `
	UPDATE reel
	SET title = $2, thumbnail_url = $3, updated_at = NOW()
	FROM playlist
	WHERE reel.id = $1 AND playlist.id = reel.playlist_id
	RETURNING playlist.owner_id
`

const listTagsQuery = `
	SELECT id, name, color, created_at
	FROM tag
	WHERE owner_id = $1
	ORDER BY name
`

const playlistTagsQuery = `
	SELECT pt.playlist_id, t.id, t.name, t.color, t.created_at
	FROM playlist_tag AS pt
	JOIN tag AS t ON t.id = pt.tag_id
	WHERE pt.playlist_id = ANY($1)
	ORDER BY t.name
`

const insertTagQuery = `
	INSERT INTO tag (id, owner_id, name, color, created_at)
	VALUES ($1, $2, $3, $4, $5)
`

const deleteTagQuery = `
	DELETE FROM tag WHERE owner_id = $1 AND id = $2
`

const countOwnedTagsQuery = `
	SELECT COUNT(*) FROM tag WHERE owner_id = $1 AND id = ANY($2)
`

const clearPlaylistTagsQuery = `
	DELETE FROM playlist_tag WHERE playlist_id = $1
`

const insertPlaylistTagsQuery = `
	INSERT INTO playlist_tag (playlist_id, tag_id)
	SELECT $1, UNNEST($2::text[])
	ON CONFLICT DO NOTHING
`
