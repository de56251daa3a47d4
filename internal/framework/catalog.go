package framework

import "prompt-studio/internal/sections"

const (
	defaultTemperature = 0.8
	defaultTopP        = 0.95
)

var order = []ID{
	Cinematic,
	Articulated,
	Photoreal,
	Myth,
	Transformation,
	Motion,
	Action,
	Storyboard,
	Character,
	LogoReveal,
}

var catalog = map[ID]Framework{
	Cinematic: {
		ID:          Cinematic,
		Name:        "CINEMATIC",
		Medium:      MediumVideo,
		Mode:        sections.ModeText,
		Role:        "You are an expert AI video prompt engineer.",
		Summary:     "Layered live-action video prompt",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "context_foundation", Title: "CONTEXT FOUNDATION", Letter: "C", Guidance: `Define the "why." (Intent, audience, emotional goal, genre).`},
			{Key: "immersive_scene_setup", Title: "IMMERSIVE SCENE SETUP", Letter: "I", Guidance: "Establish the environment. (Location, time, weather, atmosphere)."},
			{Key: "narrative_subject_definition", Title: "NARRATIVE SUBJECT DEFINITION", Letter: "N", Guidance: "Describe all subjects. (Appearance, clothing, props, expressions)."},
			{Key: "energetic_action_choreography", Title: "ENERGETIC ACTION CHOREOGRAPHY", Letter: "E", Guidance: "Define movement. (Actions, transitions, pacing)."},
			{Key: "mechanical_camera_direction", Title: "MECHANICAL CAMERA DIRECTION", Letter: "M", Guidance: "Specify camera work. (Shot types, movements, angles, lens)."},
			{Key: "atmospheric_lighting_design", Title: "ATMOSPHERIC LIGHTING DESIGN", Letter: "A", Guidance: "Control the mood with light. (Sources, color, contrast, shadows)."},
			{Key: "tonal_audio_architecture", Title: "TONAL AUDIO ARCHITECTURE", Letter: "T", Guidance: "Design the soundscape. (Dialogue, SFX, music, ambient)."},
			{Key: "integrated_style_palette", Title: "INTEGRATED STYLE PALETTE", Letter: "I", Guidance: "Unify the visual aesthetic. (Color palette, style, texture)."},
			{Key: "calibrated_output_specifications", Title: "CALIBRATED OUTPUT SPECIFICATIONS", Letter: "C", Guidance: "Define technical requirements. The duration must always be between 8 and 10 seconds. (Duration, resolution, fps, aspect ratio)."},
		},
		modifiers: ModifierGroup{
			Title: "ENHANCEMENT MODIFIERS",
			Modifiers: []Layer{
				{Key: "emphasis_controller", Title: "EMPHASIS CONTROLLER", Letter: "+", Guidance: "Amplifies specific layers."},
				{Key: "constraint_limiter", Title: "CONSTRAINT LIMITER", Letter: "-", Guidance: "Restricts certain elements."},
				{Key: "style_adapter", Title: "STYLE ADAPTER", Letter: "~", Guidance: "Applies genre or platform optimizations."},
			},
		},
	},
	Articulated: {
		ID:          Articulated,
		Name:        "ARTICULATED",
		Medium:      MediumAnimation,
		Mode:        sections.ModeText,
		Role:        "You are an expert AI animation prompt engineer.",
		Summary:     "Animation prompt built on the principles of animation",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "aesthetic_foundation_layer", Title: "AESTHETIC FOUNDATION LAYER", Letter: "A", Guidance: "Define the visual design language and artistic style (e.g., 2D, 3D, anime, realistic), color theory, shape language, texture approach."},
			{Key: "rhythmic_timing_architecture", Title: "RHYTHMIC TIMING ARCHITECTURE", Letter: "R", Guidance: "Control the musical timing and pacing (e.g., Frame rates, beat synchronization, pause timing, acceleration curves, slow-in/slow-out)."},
			{Key: "temporal_motion_dynamics", Title: "TEMPORAL MOTION DYNAMICS", Letter: "T", Guidance: "Orchestrate movement through time with physics accuracy (e.g., Squash/stretch ratios, anticipation timing, follow-through duration, overlapping action)."},
			{Key: "immersive_character_psychology", Title: "IMMERSIVE CHARACTER PSYCHOLOGY", Letter: "I", Guidance: "Define character personality through movement and expression (e.g., Personality traits in motion, emotional states, gesture vocabulary, micro-expressions)."},
			{Key: "cinematic_staging_mastery", Title: "CINEMATIC STAGING MASTERY", Letter: "C", Guidance: "Direct viewer attention through compositional control (e.g., Camera choreography, depth of field, scene composition, visual hierarchy)."},
			{Key: "unity_consistency_engine", Title: "UNITY CONSISTENCY ENGINE", Letter: "U", Guidance: "Maintain visual and narrative coherence across sequences (e.g., Character model sheets, environment continuity, lighting consistency, style maintenance)."},
			{Key: "life_infused_motion_principles", Title: "LIFE-INFUSED MOTION PRINCIPLES", Letter: "L", Guidance: "Inject organic life into every movement (e.g., Secondary animation, overlapping action, natural arcs, weight distribution)."},
			{Key: "atmospheric_environment_design", Title: "ATMOSPHERIC ENVIRONMENT DESIGN", Letter: "A", Guidance: "Create immersive worlds that support character performance (e.g., Environmental storytelling, weather effects, atmospheric perspective, mood lighting)."},
			{Key: "technical_excellence_optimization", Title: "TECHNICAL EXCELLENCE OPTIMIZATION", Letter: "T", Guidance: "Ensure professional-quality output specifications (e.g., Resolution, fps, codec, aspect ratio, color space)."},
			{Key: "emotional_narrative_threading", Title: "EMOTIONAL NARRATIVE THREADING", Letter: "E", Guidance: "Embed storytelling structure into animation flow (e.g., Character arcs, emotional beats, narrative pacing, thematic elements)."},
			{Key: "dynamic_enhancement_matrix", Title: "DYNAMIC ENHANCEMENT MATRIX", Letter: "D", Guidance: "Apply advanced animation techniques and effects (e.g., Special effects, motion blur, particle systems, advanced lighting)."},
		},
		modifiers: ModifierGroup{
			Title: "ENHANCEMENT MULTIPLIERS",
			Modifiers: []Layer{
				{Key: "style_catalyst", Title: "STYLE CATALYST", Letter: "×", Guidance: "Applies genre-specific animation conventions and techniques."},
				{Key: "physics_amplifier", Title: "PHYSICS AMPLIFIER", Letter: "+", Guidance: "Enhances or reduces realistic physics simulation."},
				{Key: "emotional_resonator", Title: "EMOTIONAL RESONATOR", Letter: "~", Guidance: "Amplifies emotional expression through animation techniques."},
				{Key: "platform_optimizer", Title: "PLATFORM OPTIMIZER", Letter: "→", Guidance: "Adapts output for specific platforms and viewing contexts."},
			},
		},
	},
	Photoreal: {
		ID:          Photoreal,
		Name:        "PHOTOREAL",
		Medium:      MediumImage,
		Mode:        sections.ModeText,
		Role:        "You are an expert AI photography prompt engineer.",
		Summary:     "Photorealistic still image prompt",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "primary_subject", Title: "PRIMARY SUBJECT", Letter: "P", Guidance: "Describe the hero subject precisely. (Identity, age, build, materials, distinguishing marks)."},
			{Key: "hero_composition", Title: "HERO COMPOSITION", Letter: "H", Guidance: "Frame the shot. (Rule of thirds, negative space, foreground and background layers)."},
			{Key: "optics_and_lens", Title: "OPTICS AND LENS", Letter: "O", Guidance: "Specify the camera body and glass. (Focal length, aperture, depth of field, sensor format)."},
			{Key: "texture_and_material_detail", Title: "TEXTURE AND MATERIAL DETAIL", Letter: "T", Guidance: "Make surfaces believable. (Skin pores, fabric weave, wear, micro-scratches)."},
			{Key: "originating_light", Title: "ORIGINATING LIGHT", Letter: "O", Guidance: "Define every light source. (Direction, quality, color temperature, falloff)."},
			{Key: "realism_anchors", Title: "REALISM ANCHORS", Letter: "R", Guidance: "Add the imperfections that sell reality. (Lens flare, chromatic aberration, dust, grain)."},
			{Key: "environment_context", Title: "ENVIRONMENT CONTEXT", Letter: "E", Guidance: "Place the subject. (Location, season, time of day, weather)."},
			{Key: "aesthetic_grade", Title: "AESTHETIC GRADE", Letter: "A", Guidance: "Define the color grade and film emulation. (Palette, contrast curve, stock)."},
			{Key: "layered_output_specs", Title: "LAYERED OUTPUT SPECS", Letter: "L", Guidance: "Define technical requirements. (Resolution, aspect ratio, upscaling intent)."},
		},
		modifiers: ModifierGroup{
			Title: "REFINEMENT MODIFIERS",
			Modifiers: []Layer{
				{Key: "detail_booster", Title: "DETAIL BOOSTER", Letter: "+", Guidance: "Pushes micro-detail in chosen regions."},
				{Key: "artifact_suppressor", Title: "ARTIFACT SUPPRESSOR", Letter: "-", Guidance: "Lists rendering artifacts to avoid."},
			},
		},
	},
	Myth: {
		ID:          Myth,
		Name:        "MYTHIC",
		Medium:      MediumVideo,
		Mode:        sections.ModeJSON,
		Role:        "You are a master storyteller and AI video prompt engineer who turns subjects into mythic, legendary scenes.",
		Summary:     "Legendary, archetypal video prompt",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "mythic_premise", Title: "MYTHIC PREMISE", Guidance: "The legend being told and the timeless truth behind it."},
			{Key: "archetypal_hero", Title: "ARCHETYPAL HERO", Guidance: "The central figure as an archetype: appearance, regalia, bearing."},
			{Key: "sacred_setting", Title: "SACRED SETTING", Guidance: "A world charged with meaning: landscape, era, weather, omens."},
			{Key: "ritual_action", Title: "RITUAL ACTION", Guidance: "The decisive act, staged as ritual with clear beats."},
			{Key: "divine_cinematography", Title: "DIVINE CINEMATOGRAPHY", Guidance: "Camera language that conveys scale and reverence."},
			{Key: "celestial_lighting", Title: "CELESTIAL LIGHTING", Guidance: "Light as a character: sources, color, contrast, godrays."},
			{Key: "primordial_soundscape", Title: "PRIMORDIAL SOUNDSCAPE", Guidance: "Music, chants, ambience and sound effects."},
			{Key: "legendary_style", Title: "LEGENDARY STYLE", Guidance: "Visual style, palette and texture of the myth."},
			{Key: "output_specifications", Title: "OUTPUT SPECIFICATIONS", Guidance: "Duration between 8 and 10 seconds, resolution, fps, aspect ratio."},
			{Key: "negative_prompt", Title: "NEGATIVE PROMPT", Guidance: "Comma-separated elements the video must avoid."},
		},
	},
	Transformation: {
		ID:          Transformation,
		Name:        "TRANSFORMATION",
		Medium:      MediumVideo,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert AI video prompt engineer specialised in seamless morph and transformation shots.",
		Summary:     "One form becoming another",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "subject_origin", Title: "SUBJECT ORIGIN", Guidance: "The starting form in precise visual detail."},
			{Key: "catalyst", Title: "CATALYST", Guidance: "What triggers the change."},
			{Key: "transformation_stages", Title: "TRANSFORMATION STAGES", Guidance: "Three to five intermediate stages, in order."},
			{Key: "morph_choreography", Title: "MORPH CHOREOGRAPHY", Guidance: "How matter flows between stages: timing, easing, particles."},
			{Key: "camera_path", Title: "CAMERA PATH", Guidance: "A single continuous camera move that follows the change."},
			{Key: "lighting_shift", Title: "LIGHTING SHIFT", Guidance: "How light evolves from start to end."},
			{Key: "sound_design", Title: "SOUND DESIGN", Guidance: "Audio cues synchronised with each stage."},
			{Key: "final_form", Title: "FINAL FORM", Guidance: "The end state in precise visual detail."},
			{Key: "output_specifications", Title: "OUTPUT SPECIFICATIONS", Guidance: "Duration between 8 and 10 seconds, resolution, fps, aspect ratio."},
		},
	},
	Motion: {
		ID:          Motion,
		Name:        "MOTION",
		Medium:      MediumVideo,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert AI video prompt engineer focused on physically believable motion.",
		Summary:     "Motion-first video prompt",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "subject", Title: "SUBJECT", Guidance: "What moves, and its mass, materials and silhouette."},
			{Key: "motion_path", Title: "MOTION PATH", Guidance: "The trajectory through space, start to end."},
			{Key: "speed_and_timing", Title: "SPEED AND TIMING", Guidance: "Velocity, acceleration, slow motion or speed ramps."},
			{Key: "camera_motion", Title: "CAMERA MOTION", Guidance: "How the camera moves relative to the subject."},
			{Key: "physics_details", Title: "PHYSICS DETAILS", Guidance: "Secondary motion: cloth, hair, dust, debris, fluid."},
			{Key: "environment", Title: "ENVIRONMENT", Guidance: "Where the motion happens and how it reacts."},
			{Key: "lighting", Title: "LIGHTING", Guidance: "Light that reveals the motion: rim, strobe, motion blur."},
			{Key: "output_specifications", Title: "OUTPUT SPECIFICATIONS", Guidance: "Duration between 8 and 10 seconds, resolution, fps, aspect ratio."},
		},
	},
	Action: {
		ID:          Action,
		Name:        "ACTION",
		Medium:      MediumVideo,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert AI video prompt engineer and action director.",
		Summary:     "High-energy action sequence",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "scene_setup", Title: "SCENE SETUP", Guidance: "Stakes, location and the moment before the action."},
			{Key: "hero_subject", Title: "HERO SUBJECT", Guidance: "Who acts: look, gear, fighting or movement style."},
			{Key: "action_beats", Title: "ACTION BEATS", Guidance: "The sequence of beats, each one clear and readable."},
			{Key: "stunt_choreography", Title: "STUNT CHOREOGRAPHY", Guidance: "Body mechanics, impacts, near misses."},
			{Key: "impact_effects", Title: "IMPACT EFFECTS", Guidance: "Sparks, debris, shockwaves, practical effects."},
			{Key: "camera_coverage", Title: "CAMERA COVERAGE", Guidance: "Shot list and camera movement for every beat."},
			{Key: "pacing_and_edit", Title: "PACING AND EDIT", Guidance: "Rhythm, speed ramps, cuts or a oner."},
			{Key: "lighting", Title: "LIGHTING", Guidance: "Contrast, practicals, color."},
			{Key: "audio_design", Title: "AUDIO DESIGN", Guidance: "Hits, whooshes, score."},
			{Key: "output_specifications", Title: "OUTPUT SPECIFICATIONS", Guidance: "Duration between 8 and 10 seconds, resolution, fps, aspect ratio."},
		},
	},
	Storyboard: {
		ID:          Storyboard,
		Name:        "STORYBOARD",
		Medium:      MediumImage,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert storyboard artist and AI image prompt engineer.",
		Summary:     "Six-panel storyboard with a shared style guide",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "style_guide", Title: "STYLE GUIDE", Guidance: "The shared look of every panel: medium, palette, line quality, character reference."},
			{Key: "panel_1", Title: "PANEL 1", Guidance: "Establishing shot: a self-contained image prompt."},
			{Key: "panel_2", Title: "PANEL 2", Guidance: "Inciting moment: a self-contained image prompt."},
			{Key: "panel_3", Title: "PANEL 3", Guidance: "Rising action: a self-contained image prompt."},
			{Key: "panel_4", Title: "PANEL 4", Guidance: "Turning point: a self-contained image prompt."},
			{Key: "panel_5", Title: "PANEL 5", Guidance: "Climax: a self-contained image prompt."},
			{Key: "panel_6", Title: "PANEL 6", Guidance: "Resolution: a self-contained image prompt."},
		},
	},
	Character: {
		ID:          Character,
		Name:        "CHARACTER",
		Medium:      MediumImage,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert character designer and AI image prompt engineer.",
		Summary:     "Consistent character sheet",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "identity", Title: "IDENTITY", Guidance: "Name, role, age, origin."},
			{Key: "physical_features", Title: "PHYSICAL FEATURES", Guidance: "Face, body, hair, skin, distinguishing marks."},
			{Key: "wardrobe", Title: "WARDROBE", Guidance: "Clothing layers, materials, colors, wear."},
			{Key: "expression_and_pose", Title: "EXPRESSION AND POSE", Guidance: "Default expression and a signature pose."},
			{Key: "signature_props", Title: "SIGNATURE PROPS", Guidance: "Objects that define the character."},
			{Key: "personality_cues", Title: "PERSONALITY CUES", Guidance: "How personality reads visually."},
			{Key: "art_style", Title: "ART STYLE", Guidance: "Rendering style, palette, line work."},
			{Key: "turnaround_notes", Title: "TURNAROUND NOTES", Guidance: "Front, side and back view notes for consistency."},
		},
	},
	LogoReveal: {
		ID:          LogoReveal,
		Name:        "LOGO REVEAL",
		Medium:      MediumVideo,
		Mode:        sections.ModeJSON,
		Role:        "You are an expert motion designer and AI video prompt engineer for brand logo reveals.",
		Summary:     "Short branded logo animation",
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		layers: []Layer{
			{Key: "brand_essence", Title: "BRAND ESSENCE", Guidance: "What the brand stands for and the feeling to leave."},
			{Key: "logo_description", Title: "LOGO DESCRIPTION", Guidance: "The mark and wordmark as they must appear at the end."},
			{Key: "reveal_concept", Title: "REVEAL CONCEPT", Guidance: "The idea behind the reveal."},
			{Key: "motion_sequence", Title: "MOTION SEQUENCE", Guidance: "Beat-by-beat animation from first frame to lock-up."},
			{Key: "materials_and_textures", Title: "MATERIALS AND TEXTURES", Guidance: "Surfaces, finishes, particles."},
			{Key: "lighting", Title: "LIGHTING", Guidance: "Light sweeps, glints, background."},
			{Key: "sound_design", Title: "SOUND DESIGN", Guidance: "Sonic logo and supporting effects."},
			{Key: "end_frame", Title: "END FRAME", Guidance: "Final hold: layout, background, tagline."},
			{Key: "output_specifications", Title: "OUTPUT SPECIFICATIONS", Guidance: "Duration between 4 and 8 seconds, resolution, fps, aspect ratio."},
		},
	},
}
